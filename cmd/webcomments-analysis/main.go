package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mihula/WebCommentsAnalysis/internal/analyzer"
	"github.com/mihula/WebCommentsAnalysis/internal/entity"
	"github.com/mihula/WebCommentsAnalysis/internal/pipeline"
	"github.com/mihula/WebCommentsAnalysis/internal/resolver"
	"github.com/mihula/WebCommentsAnalysis/internal/scanner"
	"github.com/mihula/WebCommentsAnalysis/internal/utils"
	"github.com/spf13/cobra"
)

func main() {
	var (
		envFile   string
		logLevel  string
		entityMap string
		excludes  []string
		workers   int
	)

	rootCmd := &cobra.Command{
		Use:   "webcomments-analysis [root] [module]",
		Short: "Report //WEB: status comments and entities of C# classes and methods",
		Long: `WebComments Analysis

Scans C# sources under a root directory (optionally a single module sub-directory),
collects //WEB: status annotations of classes and methods, resolves the entity each
class belongs to and prints one tab-separated row per method to stdout.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging
			logger := utils.SetupLogging(logLevel)

			// Load environment variables
			if utils.LoadEnvironmentVariables(envFile, logger) && logLevel == "" {
				// The .env file may set the log level
				logger = utils.SetupLogging("")
			}

			// Resolve scan root from arguments or environment
			root := utils.GetEnvOrDefault(utils.EnvPrefix+"ROOT", ".")
			if len(args) > 0 {
				root = args[0]
			}
			module := ""
			if len(args) > 1 {
				module = args[1]
			}
			root = scanner.ScanRoot(root, module)

			if entityMap == "" {
				entityMap = os.Getenv(utils.EnvPrefix + "ENTITY_MAP")
			}
			if workers < 1 {
				workers = utils.GetEnvInt(utils.EnvPrefix+"WORKERS", 1)
			}

			// Form class -> entity dictionary
			dictionary := entity.NewDictionary(nil, logger)
			if entityMap != "" {
				loaded, err := entity.LoadDictionary(entityMap, logger)
				if err != nil {
					logger.Warningf("Continuing without entity map: %v", err)
				} else {
					dictionary = loaded
				}
			}

			lister, err := scanner.NewFileLister(excludes, logger)
			if err != nil {
				return err
			}

			p := pipeline.NewPipeline(
				lister,
				analyzer.NewDeclarationAnalyzer(dictionary, logger),
				resolver.NewEntityResolver(logger),
				workers,
				logger,
			)

			logger.Infof("Scanning %s", root)
			return p.Run(context.Background(), root, cmd.OutOrStdout())
		},
	}

	// Define flags
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&entityMap, "entity-map", "m", "", "File with FormClass=ENTITY lines")
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "Glob of files to skip, relative to the scan root (repeatable)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of files analyzed in parallel (default 1)")

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
