package cmd

import (
	"fmt"
	"strings"

	"github.com/dyike/clipmind/internal/config"
	"github.com/dyike/clipmind/internal/logging"
	"github.com/dyike/clipmind/pkg/clipmind"
	"github.com/spf13/cobra"
)

var (
	// DefaultDBPath 默认数据库路径
	DefaultDBPath string

	// Version 版本号
	Version string

	// BuildTime 构建时间
	BuildTime string

	// 全局标志
	dbPath       string
	outputFormat string
	logLevel     string
)

// printUsageTree 从 cobra 命令树自动生成usage
func printUsageTree(root *cobra.Command) {
	var lines []string
	maxLen := 0

	// 收集所有命令行
	var collect func(cmd *cobra.Command, prefix string)
	collect = func(cmd *cobra.Command, prefix string) {
		for _, sub := range cmd.Commands() {
			if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			if sub.HasSubCommands() {
				collect(sub, prefix+sub.Name()+" ")
			} else {
				use := prefix + sub.Use
				if len(use) > maxLen {
					maxLen = len(use)
				}
				lines = append(lines, use+"\t"+sub.Short)
			}
		}
	}
	collect(root, root.Name()+" ")

	// 对齐输出
	fmt.Println("Usage:")
	for _, line := range lines {
		parts := strings.SplitN(line, "\t", 2)
		padding := maxLen - len(parts[0]) + 2
		if padding < 2 {
			padding = 2
		}
		fmt.Printf("  %s%s- %s\n", parts[0], strings.Repeat(" ", padding), parts[1])
	}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "clipmind",
	Short:   "ClipMind - clipboard capture and semantic organization",
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel)
	},
	Run: func(cmd *cobra.Command, args []string) {
		printUsageTree(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 全局标志
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text|json|csv|md|xml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	// 添加子命令
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(collectionCmd)

	// 版本模板
	rootCmd.SetVersionTemplate(fmt.Sprintf("clipmind version %s (built %s)\n", Version, BuildTime))
}

// loadAppConfig 加载配置文件并套用命令行覆盖
func loadAppConfig() (clipmind.Config, error) {
	fileCfg, err := config.Load()
	if err != nil {
		return clipmind.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := clipmind.DefaultConfig()
	cfg.PollInterval = fileCfg.PollInterval()
	cfg.MaxItems = fileCfg.Capture.MaxItems
	cfg.AllowDuplicates = fileCfg.Capture.AllowDuplicates
	cfg.SemanticSearch = fileCfg.Capture.SemanticSearch
	cfg.RateLimit = fileCfg.Capture.RateLimit
	cfg.RateWindow = fileCfg.RateWindow()

	cfg.DBPath, err = fileCfg.GetDatabasePath()
	if err != nil {
		return clipmind.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	} else if DefaultDBPath != "" && cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}

	return cfg, nil
}

// getClipMind 获取ClipMind实例（辅助函数）
func getClipMind() (*clipmind.ClipMind, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}

	cm, err := clipmind.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return cm, nil
}
