package main

import (
	"fmt"
	"strings"

	"github.com/amanah-labs/halal-screener/internal/model"
)

// ratingEmoji maps a rating to its display glyph.
func ratingEmoji(r model.Rating) string {
	switch r {
	case model.RatingHalal:
		return "✅"
	case model.RatingQuestionable:
		return "⚠️"
	case model.RatingNonHalal:
		return "❌"
	default:
		return "❓"
	}
}

// ratingColor maps a rating to its display hex color.
func ratingColor(r model.Rating) string {
	switch r {
	case model.RatingHalal:
		return "#22c55e"
	case model.RatingQuestionable:
		return "#f59e0b"
	case model.RatingNonHalal:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}

// printRecord renders a screening record as a table or JSON.
func printRecord(rec *model.ScreeningRecord, format string) error {
	if format == "json" {
		return printJSON(rec)
	}

	o := rec.Outcome
	fmt.Printf("%s %s (%s)\n", ratingEmoji(o.OverallRating), rec.Facts.Coin.Name, strings.ToUpper(rec.Facts.Coin.Symbol))
	fmt.Printf("Rating:     %s (score %d/100, %s confidence)\n", o.OverallRating, o.OverallScore, o.Confidence)
	fmt.Println()

	fmt.Println("Pillars:")
	printPillar("Nature & Purpose", o.Pillars.Nature)
	printPillar("Token Structure", o.Pillars.Token)
	printPillar("Financial Ratios", o.Pillars.Ratios)
	printPillar("Governance", o.Pillars.Governance)

	printSection("Strengths", o.Strengths)
	printSection("Concerns", o.Concerns)
	printSection("Recommendations", o.Recommendations)

	if rec.ManualReviewRequired {
		fmt.Println("\nManual scholar review recommended.")
	}
	fmt.Printf("\nScreened %s | sources: %s\n", o.LastUpdated.Format("2006-01-02"), strings.Join(o.Sources, ", "))
	fmt.Println(o.Disclaimer)
	return nil
}

func printPillar(name string, p model.PillarResult) {
	fmt.Printf("  %-18s %3d  %s\n", name, p.Score, p.Status)
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
}
