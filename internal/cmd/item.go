package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyike/clipmind/internal/format"
	"github.com/dyike/clipmind/pkg/classify"
	"github.com/dyike/clipmind/pkg/clipmind"
	"github.com/dyike/clipmind/pkg/pipeline"
	"github.com/dyike/clipmind/pkg/store"
	"github.com/spf13/cobra"
)

// add 命令 - 手动捕获一段文本
var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Capture text manually (from argument or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

// list 命令 - 按时间倒序列出条目
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured items, newest first",
	RunE:  runList,
}

// show 命令 - 显示条目详情
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a captured item (accepts ID prefix)",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// delete 命令 - 删除条目
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a captured item",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// favorite 命令 - 收藏/取消收藏
var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle favorite on an item (favorites survive pruning)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavorite,
}

// tags 命令 - 标签统计
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with usage counts",
	RunE:  runTags,
}

// status 命令 - 运行状态
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and index status",
	RunE:  runStatus,
}

var (
	listCategory   string
	listCollection string
	listFavorites  bool
	listNum        int
	listOffset     int
	addSource      string
	showFull       bool
)

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category (text|code|url|file|image|other)")
	listCmd.Flags().StringVar(&listCollection, "collection", "", "Filter by collection name")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "Only favorites")
	listCmd.Flags().IntVarP(&listNum, "num", "n", 50, "Number of items")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip first N items")

	addCmd.Flags().StringVar(&addSource, "source", "", "Source application identifier")

	showCmd.Flags().BoolVar(&showFull, "full", false, "Show full body")
}

func runAdd(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	outcome, item := cm.Capture(text, addSource)
	switch outcome {
	case pipeline.OutcomeAccepted:
		fmt.Printf("Captured %s [%s] %s\n", shortID(item.ID), item.Category, item.Title)
	case pipeline.OutcomeDuplicate:
		fmt.Printf("Already captured as %s\n", shortID(item.ID))
	default:
		return fmt.Errorf("capture rejected: %s", outcome)
	}

	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	opts := store.ListOptions{
		Category:     classify.Category(listCategory),
		FavoriteOnly: listFavorites,
		Limit:        listNum,
		Offset:       listOffset,
	}

	if listCollection != "" {
		col, err := cm.GetCollectionByName(listCollection)
		if err != nil {
			return fmt.Errorf("collection not found: %s", listCollection)
		}
		opts.CollectionID = col.ID
	}

	items, err := cm.ListItems(opts)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	return format.OutputItemList(items, format.Format(outputFormat))
}

func runShow(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	item, err := resolveItem(cm, args[0])
	if err != nil {
		return err
	}

	return format.OutputItemDetail(item, format.Format(outputFormat), showFull)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	item, err := resolveItem(cm, args[0])
	if err != nil {
		return err
	}

	if err := cm.DeleteItem(item.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	fmt.Printf("Deleted %s\n", shortID(item.ID))
	return nil
}

func runFavorite(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	item, err := resolveItem(cm, args[0])
	if err != nil {
		return err
	}

	if err := cm.SetFavorite(item.ID, !item.Favorite); err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	if item.Favorite {
		fmt.Printf("Unfavorited %s\n", shortID(item.ID))
	} else {
		fmt.Printf("Favorited %s\n", shortID(item.ID))
	}
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	tags, err := cm.ListTags()
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	if len(tags) == 0 {
		fmt.Println("No tags yet")
		return nil
	}

	return format.OutputTags(tags, format.Format(outputFormat))
}

func runStatus(cmd *cobra.Command, args []string) error {
	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	status, err := cm.Status()
	if err != nil {
		return err
	}

	return format.OutputStatus(status, format.Format(outputFormat))
}

// resolveItem 支持完整ID与唯一前缀
func resolveItem(cm *clipmind.ClipMind, ref string) (*store.Item, error) {
	if item, err := cm.GetItem(ref); err == nil {
		return item, nil
	}

	items, err := cm.ListItems(store.ListOptions{Limit: -1})
	if err != nil {
		return nil, err
	}

	var match *store.Item
	for i := range items {
		if strings.HasPrefix(items[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous item reference: %s", ref)
			}
			match = &items[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("item not found: %s", ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
