package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/trendradar/internal/card"
	"github.com/matheuskafuri/trendradar/internal/config"
	"github.com/matheuskafuri/trendradar/internal/store"
	"github.com/matheuskafuri/trendradar/internal/trend"
)

var (
	flagCategory string
	flagMarkdown bool
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show previously saved trend cards",
	Long: `Show trend cards from a saved envelope file, a JSON card array, or a
directory of per-card JSON files. Without a path, the configured output
file is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&flagCategory, "category", "", "only show cards in this category (serving, rag, llmops)")
	showCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "render each card as a full markdown document")
}

func runShow(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path = cfg.Output
	}
	if path == "" {
		path = config.DefaultOutputPath()
	}

	cards, err := loadCards(path)
	if err != nil {
		return err
	}
	if flagCategory != "" {
		filtered := cards[:0]
		for _, c := range cards {
			if string(c.Category) == flagCategory {
				filtered = append(filtered, c)
			}
		}
		cards = filtered
	}

	if flagMarkdown {
		docs := make([]string, 0, len(cards))
		for _, c := range cards {
			docs = append(docs, card.RenderMarkdown(c))
		}
		fmt.Print(strings.Join(docs, "\n---\n\n"))
		return nil
	}
	fmt.Print(card.RenderRadarList(cards))
	return nil
}

// loadCards accepts the three shapes the writer and external tools produce:
// an envelope file, a bare JSON array of cards, or a directory of one-card
// JSON files.
func loadCards(path string) ([]trend.Card, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return store.LoadCardsFromDir(path, "")
	}
	if env, err := store.LoadEnvelope(path); err == nil {
		return env.Cards, nil
	}
	return store.LoadCardsFromFile(path)
}
