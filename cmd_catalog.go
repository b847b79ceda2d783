package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"vitrine/content"
)

type catalogTheme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
}

func defaultCatalogTheme() catalogTheme {
	return catalogTheme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("137")),
	}
}

func newCatalogCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the products in the showcase catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			cat, err := content.Load(cfg.Catalog)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCatalog(cat, defaultCatalogTheme()))
			return nil
		},
	}
}

func renderCatalog(cat *content.Catalog, theme catalogTheme) string {
	cards := make([]string, 0, cat.Len())
	for i, p := range cat.Products() {
		var b strings.Builder
		b.WriteString(theme.Title.Render(fmt.Sprintf("%d. %s", i+1, p.Name)))
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(p.Description))
		for _, d := range p.Details {
			b.WriteString("\n  • " + d)
		}
		cards = append(cards, theme.Card.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
