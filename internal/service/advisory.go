package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
)

const (
	minAnalysisTransactions   = 1
	minPredictionTransactions = 3
)

// AdvisoryService assembles transactions and summaries for the advisory generator.
type AdvisoryService struct {
	Transactions TransactionStore
	Generator    *advisor.Generator
	Now          func() time.Time
}

type Analysis struct {
	Text                 string
	Source               advisor.Source
	Totals               finance.Totals
	TransactionsAnalyzed int
}

type Prediction struct {
	Text                 string
	Source               advisor.Source
	HistoricalDataPoints int
}

type Tips struct {
	Text    string
	Source  advisor.Source
	BasedOn finance.Totals
}

// SummaryReport is the grouped view of one date range.
type SummaryReport struct {
	Range   finance.DateRange
	Summary finance.Summary
}

func (s *AdvisoryService) GetAnalysis(ctx context.Context, userID string) (Analysis, error) {
	txs, err := s.Transactions.List(ctx, userID, finance.Filter{})
	if err != nil {
		return Analysis{}, fmt.Errorf("list transactions: %w", err)
	}
	if len(txs) < minAnalysisTransactions {
		return Analysis{}, &InsufficientDataError{Kind: advisor.KindAnalysis, Have: len(txs), Need: minAnalysisTransactions}
	}
	summary := s.windowSummary(ctx, userID)
	res := s.Generator.Generate(ctx, advisor.KindAnalysis, txs, summary)
	return Analysis{
		Text:                 res.Text,
		Source:               res.Source,
		Totals:               summary.Totals,
		TransactionsAnalyzed: len(txs),
	}, nil
}

func (s *AdvisoryService) GetPrediction(ctx context.Context, userID string) (Prediction, error) {
	txs, err := s.Transactions.List(ctx, userID, finance.Filter{})
	if err != nil {
		return Prediction{}, fmt.Errorf("list transactions: %w", err)
	}
	if len(txs) < minPredictionTransactions {
		return Prediction{}, &InsufficientDataError{Kind: advisor.KindPrediction, Have: len(txs), Need: minPredictionTransactions}
	}
	res := s.Generator.Generate(ctx, advisor.KindPrediction, txs, finance.Summarize(nil))
	return Prediction{Text: res.Text, Source: res.Source, HistoricalDataPoints: len(txs)}, nil
}

// GetTips has no minimum; an empty history yields zero totals.
func (s *AdvisoryService) GetTips(ctx context.Context, userID string) (Tips, error) {
	summary := s.windowSummary(ctx, userID)
	res := s.Generator.Generate(ctx, advisor.KindTips, nil, summary)
	return Tips{Text: res.Text, Source: res.Source, BasedOn: summary.Totals}, nil
}

// GetSummary groups the user's transactions inside rng. Storage errors are returned.
func (s *AdvisoryService) GetSummary(ctx context.Context, userID string, rng finance.DateRange) (SummaryReport, error) {
	groups, err := s.Transactions.SummarizeByCategory(ctx, userID, rng)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("summarize transactions: %w", err)
	}
	return SummaryReport{Range: rng, Summary: finance.Summarize(groups)}, nil
}

// windowSummary degrades to a zero summary when the grouped query fails.
func (s *AdvisoryService) windowSummary(ctx context.Context, userID string) finance.Summary {
	rng := finance.DefaultWindow(s.now())
	groups, err := s.Transactions.SummarizeByCategory(ctx, userID, rng)
	if err != nil {
		log.Printf("advisory: summary for %s failed, using zero totals: %v", rng, err)
		return finance.Summarize(nil)
	}
	return finance.Summarize(groups)
}

func (s *AdvisoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
