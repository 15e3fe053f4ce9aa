package bot

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/magnitronlab/preorder-bot/core/logger"
	tghelpers "github.com/magnitronlab/preorder-bot/core/telegram/helpers"
	"github.com/magnitronlab/preorder-bot/internal/order"

	tele "gopkg.in/telebot.v4"
)

// ExportFileName is the name of the document sent by /export.
const ExportFileName = "orders.xlsx"

const (
	exportEmpty  = "Заказов пока нет."
	exportFailed = "Не удалось сформировать выгрузку."
)

// Export sends every stored order to the operator as a spreadsheet.
func (h *Handlers) Export(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	records, err := h.orders.ReadAll()
	if err != nil {
		logger.Error(ctx, "orders", "export", slog.String("status", "fail"), slog.String("err", err.Error()))
		return tghelpers.SendText(c, exportFailed)
	}
	if len(records) == 0 {
		return tghelpers.SendText(c, exportEmpty)
	}

	var buf bytes.Buffer
	if err := order.WriteXLSX(&buf, records); err != nil {
		logger.Error(ctx, "orders", "export", slog.String("status", "fail"), slog.String("err", err.Error()))
		return tghelpers.SendText(c, exportFailed)
	}
	logger.Info(ctx, "orders", "export",
		slog.String("status", "ok"),
		slog.Int("records", len(records)),
		slog.Int("bytes", buf.Len()),
	)
	return tghelpers.SendDocument(c, &tele.Document{
		File:     tele.FromReader(&buf),
		FileName: ExportFileName,
		Caption:  fmt.Sprintf("Заказов: %d", len(records)),
	})
}
