package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// FundService keeps the club ledger. Anyone signed in can read it; only
// admins record transactions or export them.
type FundService struct {
	funds  Collection[model.Transaction]
	logger *zap.Logger
	opts   options
}

func NewFundService(funds Collection[model.Transaction], logger *zap.Logger, opts ...Option) *FundService {
	return &FundService{
		funds:  funds,
		logger: logger,
		opts:   newOptions(opts),
	}
}

func summarize(txs []model.Transaction) model.LedgerSummary {
	var sum model.LedgerSummary
	for _, t := range txs {
		if t.Type == model.Income {
			sum.Income += t.Amount
			sum.Balance += t.Amount
		} else {
			sum.Expense += t.Amount
			sum.Balance -= t.Amount
		}
	}
	return sum
}

func (s *FundService) loadSorted(ctx context.Context) ([]model.Transaction, error) {
	txs, err := load(ctx, s.funds)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
	return txs, nil
}

// Ledger returns the transactions newest first with running totals.
func (s *FundService) Ledger(ctx context.Context) (model.Ledger, error) {

	txs, err := s.loadSorted(ctx)
	if err != nil {
		return model.Ledger{}, err
	}

	return model.Ledger{
		Summary:      summarize(txs),
		Transactions: txs,
	}, nil
}

func (s *FundService) RecordTransaction(ctx context.Context, actor model.Actor, req model.TransactionRequest) (model.Transaction, error) {

	if !actor.IsAdmin() {
		return model.Transaction{}, ErrForbidden
	}
	if req.Type != model.Income && req.Type != model.Expense {
		return model.Transaction{}, fmt.Errorf("%w: type %q", ErrInvalidInput, req.Type)
	}
	if req.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	date := s.opts.now().UTC()
	if strings.TrimSpace(req.Date) != "" {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		date = d
	}

	id, err := newID()
	if err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		ID:          id,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
	}

	err = update(ctx, s.funds, s.opts.writeRetries, func(txs []model.Transaction) ([]model.Transaction, error) {
		return append(txs, tx), nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.logger.Info("transaction recorded",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.Int64("amount", tx.Amount),
	)

	return tx, nil
}

func (s *FundService) ExportLedger(ctx context.Context, actor model.Actor, w io.Writer) error {

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	txs, err := s.loadSorted(ctx)
	if err != nil {
		return err
	}

	rows := make([]model.TransactionCSV, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, model.TransactionCSV{
			Date:        t.Date.Format("2006-01-02"),
			Type:        string(t.Type),
			Amount:      t.Amount,
			Description: t.Description,
		})
	}

	return gocsv.Marshal(rows, w)
}
