package apis

import (
	"bytes"
	"context"
	"io"

	"club-manager-backend/cmd/club-manager/model"

	"github.com/labstack/echo/v4"
)

type IFundService interface {
	Ledger(ctx context.Context) (model.Ledger, error)
	RecordTransaction(ctx context.Context, actor model.Actor, req model.TransactionRequest) (model.Transaction, error)
	ExportLedger(ctx context.Context, actor model.Actor, w io.Writer) error
}

type FundAPI struct {
	funds IFundService
}

func NewFundAPI(funds IFundService) *FundAPI {

	return &FundAPI{
		funds: funds,
	}
}

func (a *FundAPI) Setup(g *echo.Group) {
	g.GET("/funds", a.ledger)
	g.POST("/funds", a.recordTransaction)
	g.GET("/funds/export", a.exportLedger)
}

func (a *FundAPI) ledger(c echo.Context) error {

	ledger, err := a.funds.Ledger(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	return success(c, ledger)
}

func (a *FundAPI) recordTransaction(c echo.Context) error {

	var req model.TransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	tx, err := a.funds.RecordTransaction(c.Request().Context(), actorOf(c), req)
	if err != nil {
		return fail(c, err)
	}

	return success(c, tx)
}

func (a *FundAPI) exportLedger(c echo.Context) error {

	var buf bytes.Buffer
	if err := a.funds.ExportLedger(c.Request().Context(), actorOf(c), &buf); err != nil {
		return fail(c, err)
	}

	return csvAttachment(c, "funds.csv", buf.Bytes())
}
