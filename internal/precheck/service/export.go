package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"solar21_precheck/internal/precheck/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExportCSV renders the results of a session as CSV: one row per site in
// ranking order, then a portfolio row.
func (s *Service) ExportCSV(ctx context.Context, id uuid.UUID) ([]byte, error) {
	results, err := s.Results(ctx, id)
	if err != nil {
		return nil, err
	}
	return encodeResults(results)
}

func encodeResults(results transport.ResultsResponse) ([]byte, error) {
	var factorIDs []string
	if len(results.Sites) > 0 {
		for _, f := range results.Sites[0].Breakdown.Factors {
			factorIDs = append(factorIDs, f.ID)
		}
	}

	header := []string{"rank", "site", "address", "canton", "roof_area_m2"}
	for _, id := range factorIDs {
		header = append(header, id+"_pct")
	}
	header = append(header, "structure_pct", "consumption_pct", "composite", "tier")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, idx := range results.Ranking {
		site := results.Sites[idx]
		row := []string{
			strconv.Itoa(site.Rank),
			strconv.Itoa(site.Index + 1),
			csvText(site.Address),
			csvText(site.Canton),
			optionalDecimal(site.RoofAreaM2),
		}
		for _, f := range site.Breakdown.Factors {
			if f.Excluded {
				row = append(row, "")
				continue
			}
			row = append(row, oneDecimal(f.NormalizedPercent))
		}
		row = append(row,
			oneDecimal(site.Breakdown.StructureSubtotalPercent),
			oneDecimal(site.Breakdown.ConsumptionSubtotalPercent),
			oneDecimal(site.Breakdown.CompositeScore),
			string(site.Breakdown.Tier),
		)
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	portfolio := make([]string, len(header))
	portfolio[1] = "portfolio"
	portfolio[len(header)-2] = oneDecimal(results.CompositeScore)
	portfolio[len(header)-1] = string(results.Tier)
	if err := w.Write(portfolio); err != nil {
		return nil, fmt.Errorf("write csv row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// csvText keeps user-typed text from being read as a spreadsheet formula.
func csvText(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func oneDecimal(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

func optionalDecimal(v *float64) string {
	if v == nil {
		return ""
	}
	return oneDecimal(*v)
}
