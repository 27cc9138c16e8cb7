package format

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dyike/clipmind/pkg/clipmind"
	"github.com/dyike/clipmind/pkg/store"
)

// Format 输出格式类型
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatMD   Format = "md"
	FormatXML  Format = "xml"
)

const snippetLimit = 200

// OutputItemList 输出条目列表
func OutputItemList(items []store.Item, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(items)
	case FormatCSV:
		return outputItemListCSV(items)
	case FormatMD:
		return outputItemListMarkdown(items)
	case FormatXML:
		return outputXML(items)
	default:
		return outputItemListText(items)
	}
}

// OutputItemDetail 输出条目详情
func OutputItemDetail(item *store.Item, format Format, full bool) error {
	switch format {
	case FormatJSON:
		return outputJSON(item)
	case FormatMD:
		return outputItemDetailMarkdown(item, full)
	case FormatXML:
		return outputXML(item)
	default:
		// CSV不适合单个条目，使用文本
		return outputItemDetailText(item, full)
	}
}

// OutputSearchResults 输出搜索结果
func OutputSearchResults(results []clipmind.SearchResult, format Format, full bool) error {
	switch format {
	case FormatJSON:
		return outputJSON(results)
	case FormatCSV:
		return outputSearchCSV(results)
	case FormatMD:
		return outputSearchMarkdown(results, full)
	case FormatXML:
		return outputXML(results)
	default:
		return outputSearchText(results, full)
	}
}

// OutputCollections 输出集合列表
func OutputCollections(collections []store.Collection, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(collections)
	case FormatCSV:
		return outputCollectionsCSV(collections)
	case FormatMD:
		return outputCollectionsMarkdown(collections)
	case FormatXML:
		return outputXML(collections)
	default:
		return outputCollectionsText(collections)
	}
}

// OutputTags 输出标签统计
func OutputTags(tags []store.TagCount, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(tags)
	case FormatCSV:
		return outputTagsCSV(tags)
	case FormatMD:
		return outputTagsMarkdown(tags)
	case FormatXML:
		return outputXML(tags)
	default:
		return outputTagsText(tags)
	}
}

// OutputStatus 输出状态信息
func OutputStatus(status clipmind.Status, format Format) error {
	switch format {
	case FormatJSON:
		return outputJSON(status)
	case FormatMD:
		return outputStatusMarkdown(status)
	case FormatXML:
		return outputXML(status)
	default:
		return outputStatusText(status)
	}
}

// --- JSON 输出 ---
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// --- XML 输出 ---
func outputXML(v interface{}) error {
	encoder := xml.NewEncoder(os.Stdout)
	encoder.Indent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// snippet 取正文首行并截断
func snippet(body string) string {
	line := body
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	runes := []rune(line)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "..."
	}
	return line
}

func favoriteMark(item store.Item) string {
	if item.Favorite {
		return "*"
	}
	return " "
}

// --- 条目列表输出 ---

func outputItemListText(items []store.Item) error {
	for _, item := range items {
		fmt.Printf("%s%s [%s] %s\n", favoriteMark(item), shortID(item.ID), item.Category, item.Title)
		if len(item.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(item.Tags, ", "))
		}
		fmt.Printf("   Captured: %s\n", item.CreatedAt.Local().Format(time.RFC3339))
		fmt.Println()
	}
	return nil
}

func outputItemListCSV(items []store.Item) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	// Header
	w.Write([]string{"ID", "Category", "Title", "Tags", "SourceApp", "Favorite", "Captured"})

	// Rows
	for _, item := range items {
		w.Write([]string{
			item.ID,
			string(item.Category),
			item.Title,
			strings.Join(item.Tags, ";"),
			item.SourceApp,
			fmt.Sprintf("%t", item.Favorite),
			item.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil
}

func outputItemListMarkdown(items []store.Item) error {
	fmt.Println("| ID | Category | Title | Tags | Captured |")
	fmt.Println("|----|----------|-------|------|----------|")

	for _, item := range items {
		fmt.Printf("| %s | %s | %s | %s | %s |\n",
			shortID(item.ID),
			item.Category,
			item.Title,
			strings.Join(item.Tags, ", "),
			item.CreatedAt.Format("2006-01-02"),
		)
	}

	return nil
}

// --- 条目详情输出 ---

func outputItemDetailText(item *store.Item, full bool) error {
	fmt.Printf("ID: %s\n", item.ID)
	fmt.Printf("Title: %s\n", item.Title)
	fmt.Printf("Category: %s\n", item.Category)
	if len(item.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(item.Tags, ", "))
	}
	if item.SourceApp != "" {
		fmt.Printf("Source: %s\n", item.SourceApp)
	}
	if item.CollectionID != "" {
		fmt.Printf("Collection: %s\n", item.CollectionID)
	}
	fmt.Printf("Favorite: %t\n", item.Favorite)
	fmt.Printf("Captured: %s\n", item.CreatedAt.Local().Format(time.RFC3339))
	fmt.Println()

	body := item.Body
	if !full && len(body) > 500 {
		body = body[:500] + "\n..."
	}
	fmt.Println(body)

	return nil
}

func outputItemDetailMarkdown(item *store.Item, full bool) error {
	fmt.Printf("# %s\n\n", item.Title)
	fmt.Printf("**ID:** %s  \n", item.ID)
	fmt.Printf("**Category:** %s  \n", item.Category)
	if len(item.Tags) > 0 {
		fmt.Printf("**Tags:** %s  \n", strings.Join(item.Tags, ", "))
	}
	fmt.Printf("**Captured:** %s\n\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("---\n")

	body := item.Body
	if !full && len(body) > 500 {
		body = body[:500] + "\n..."
	}
	fmt.Println(body)

	return nil
}

// --- 搜索结果输出 ---

func outputSearchText(results []clipmind.SearchResult, full bool) error {
	for i, r := range results {
		fmt.Printf("[%d] Score: %.4f | %s [%s]\n", i+1, r.Score, shortID(r.Item.ID), r.Item.Category)
		fmt.Printf("    Title: %s\n", r.Item.Title)

		if full {
			fmt.Printf("    Body:\n")
			for _, line := range strings.Split(r.Item.Body, "\n") {
				fmt.Printf("    %s\n", line)
			}
		} else {
			fmt.Printf("    Snippet: %s\n", snippet(r.Item.Body))
		}

		fmt.Println()
	}
	return nil
}

func outputSearchMarkdown(results []clipmind.SearchResult, full bool) error {
	fmt.Println("# Search Results")

	for i, r := range results {
		fmt.Printf("## %d. %s (%.4f)\n\n", i+1, r.Item.Title, r.Score)
		fmt.Printf("**Category:** %s  \n", r.Item.Category)
		if r.Item.SourceApp != "" {
			fmt.Printf("**Source:** %s  \n", r.Item.SourceApp)
		}
		fmt.Println()

		if full {
			fmt.Println("```")
			fmt.Println(r.Item.Body)
			fmt.Println("```")
		} else {
			fmt.Printf("> %s\n\n", snippet(r.Item.Body))
		}
	}

	return nil
}

func outputSearchCSV(results []clipmind.SearchResult) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	w.Write([]string{"Rank", "Score", "ID", "Category", "Title", "Snippet"})

	for i, r := range results {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.4f", r.Score),
			r.Item.ID,
			string(r.Item.Category),
			r.Item.Title,
			snippet(r.Item.Body),
		})
	}

	return nil
}

// --- 集合输出 ---

func outputCollectionsText(collections []store.Collection) error {
	for _, c := range collections {
		fmt.Printf("Collection: %s\n", c.Name)
		fmt.Printf("  ID: %s\n", c.ID)
		if c.Color != "" {
			fmt.Printf("  Color: %s\n", c.Color)
		}
		fmt.Printf("  Items: %d\n", c.ItemCount)
		fmt.Printf("  Created: %s\n", c.CreatedAt.Format(time.RFC3339))
		fmt.Println()
	}
	return nil
}

func outputCollectionsCSV(collections []store.Collection) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	w.Write([]string{"ID", "Name", "Color", "ItemCount", "Created"})

	for _, c := range collections {
		w.Write([]string{
			c.ID,
			c.Name,
			c.Color,
			fmt.Sprintf("%d", c.ItemCount),
			c.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil
}

func outputCollectionsMarkdown(collections []store.Collection) error {
	fmt.Println("| Name | Items | Created |")
	fmt.Println("|------|-------|---------|")

	for _, c := range collections {
		fmt.Printf("| %s | %d | %s |\n",
			c.Name,
			c.ItemCount,
			c.CreatedAt.Format("2006-01-02"),
		)
	}

	return nil
}

// --- 标签输出 ---

func outputTagsText(tags []store.TagCount) error {
	for _, tag := range tags {
		fmt.Printf("%4d  %s\n", tag.Count, tag.Name)
	}
	return nil
}

func outputTagsCSV(tags []store.TagCount) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	w.Write([]string{"Tag", "Count"})

	for _, tag := range tags {
		w.Write([]string{tag.Name, fmt.Sprintf("%d", tag.Count)})
	}

	return nil
}

func outputTagsMarkdown(tags []store.TagCount) error {
	fmt.Println("| Tag | Count |")
	fmt.Println("|-----|-------|")

	for _, tag := range tags {
		fmt.Printf("| %s | %d |\n", tag.Name, tag.Count)
	}

	return nil
}

// --- 状态输出 ---

func outputStatusText(status clipmind.Status) error {
	fmt.Printf("Database: %s\n", status.DBPath)
	fmt.Printf("Total Items: %d\n", status.TotalItems)
	fmt.Printf("Indexed: %d\n", status.IndexedSize)
	fmt.Printf("Collections: %d\n", status.Collections)
	fmt.Printf("Watching: %t\n", status.Watching)
	return nil
}

func outputStatusMarkdown(status clipmind.Status) error {
	fmt.Printf("# ClipMind Status\n")
	fmt.Printf("**Database:** %s  \n", status.DBPath)
	fmt.Printf("**Items:** %d  \n", status.TotalItems)
	fmt.Printf("**Indexed:** %d  \n", status.IndexedSize)
	fmt.Printf("**Collections:** %d  \n", status.Collections)
	fmt.Printf("**Watching:** %t\n", status.Watching)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
