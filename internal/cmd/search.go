package cmd

import (
	"errors"
	"fmt"

	"github.com/dyike/clipmind/internal/format"
	"github.com/dyike/clipmind/pkg/index"
	"github.com/spf13/cobra"
)

// search 命令 - 语义搜索
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over captured items",
	Long:  "Rank captured items by embedding similarity to the query",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var (
	numResults  int
	fullContent bool
)

func init() {
	searchCmd.Flags().IntVarP(&numResults, "num", "n", 10, "Number of results")
	searchCmd.Flags().BoolVar(&fullContent, "full", false, "Show full body")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cm, err := getClipMind()
	if err != nil {
		return err
	}
	defer cm.Close()

	// 一次性命令：先从持久层回填索引
	if err := cm.Reindex(); err != nil {
		return err
	}

	results, err := cm.Search(query, numResults)
	if errors.Is(err, index.ErrIndexNotReady) {
		fmt.Println("Nothing indexed yet")
		fmt.Println("Run 'clipmind watch' to start capturing")
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	fmt.Printf("Found %d result(s)\n\n", len(results))
	return format.OutputSearchResults(results, format.Format(outputFormat), fullContent)
}
