// Package quotes holds the normalized price records built out of extracted table rows.
// The JSON field names are the Portuguese labels consumers of the output depend on.
package quotes

import (
	"encoding/json"
	"fmt"
	"io"

	"cattleprices/internal/numeric"
	"cattleprices/internal/pattern"
	"cattleprices/internal/scrapers/scot"
)

// Record is one of ChinaExportBovine, CattlePrice or CattleMarketData.
type Record interface {
	// Table is the table type the record was extracted from.
	Table() scot.TableType
	// Label is the state code or region the prices refer to.
	Label() string
	// Cells are the record values formatted for display, see Header.
	Cells() []string
}

type ChinaExportBovine struct {
	State      string  `json:"UF"`
	GrossPrice float64 `json:"Preço bruto"`
	NetPrice   float64 `json:"Preço livre de impostos"`
}

func NewChinaExportBovine(n numeric.Normalizer, row pattern.Row) ChinaExportBovine {
	return ChinaExportBovine{
		State:      row.Get("state"),
		GrossPrice: n.Float(row.Get("gross_price")),
		NetPrice:   n.Float(row.Get("net_price")),
	}
}

func (r ChinaExportBovine) Table() scot.TableType {
	return scot.TABLE_CHINA_EXPORT_BOVINE
}

func (r ChinaExportBovine) Label() string {
	return r.State
}

func (r ChinaExportBovine) Cells() []string {
	return []string{r.State, numeric.Format(r.GrossPrice), numeric.Format(r.NetPrice)}
}

type CattlePrice struct {
	Region         string  `json:"Praça Precuária"`
	PriceToday     float64 `json:"Preço Hoje"`
	PriceYesterday float64 `json:"Preço Ontem"`
	PriceChange    float64 `json:"Mudança de Preço"`
}

func NewCattlePrice(n numeric.Normalizer, row pattern.Row) CattlePrice {
	return CattlePrice{
		Region:         row.Get("region"),
		PriceToday:     n.Float(row.Get("price_today")),
		PriceYesterday: n.Float(row.Get("price_yesterday")),
		PriceChange:    n.Float(row.Get("price_change")),
	}
}

func (r CattlePrice) Table() scot.TableType {
	return scot.TABLE_CATTLE_PRICE
}

func (r CattlePrice) Label() string {
	return r.Region
}

func (r CattlePrice) Cells() []string {
	return []string{
		r.Region,
		numeric.Format(r.PriceToday),
		numeric.Format(r.PriceYesterday),
		numeric.Format(r.PriceChange),
	}
}

type GrossPrices struct {
	Cash       float64 `json:"Á Vista"`
	ThirtyDays float64 `json:"Para 30 dias"`
}

type DiscountedPrices struct {
	FunruralCash       float64 `json:"Funrural à vista"`
	FunruralThirtyDays float64 `json:"Funrural para 30 dias"`
	SenarCash          float64 `json:"Senar à vista"`
	SenarThirtyDays    float64 `json:"Senar para 30 dias"`
}

type CattleMarketData struct {
	CattleType       CattleType       `json:"Tipo de Animal"`
	State            string           `json:"UF"`
	GrossPrices      GrossPrices      `json:"Preços Brutos"`
	DiscountedPrices DiscountedPrices `json:"Preços com Descontos"`
}

func NewCattleMarketData(n numeric.Normalizer, cattleType CattleType, row pattern.Row) CattleMarketData {
	return CattleMarketData{
		CattleType: cattleType,
		State:      row.Get("state"),
		GrossPrices: GrossPrices{
			Cash:       n.Float(row.Get("cash_price")),
			ThirtyDays: n.Float(row.Get("price_30_days")),
		},
		DiscountedPrices: DiscountedPrices{
			FunruralCash:       n.Float(row.Get("funrural_discount_cash")),
			FunruralThirtyDays: n.Float(row.Get("funrural_discount_30_days")),
			SenarCash:          n.Float(row.Get("senar_contribution_cash")),
			SenarThirtyDays:    n.Float(row.Get("senar_contribution_30_days")),
		},
	}
}

func (r CattleMarketData) Table() scot.TableType {
	return r.CattleType.Table()
}

func (r CattleMarketData) Label() string {
	return r.State
}

func (r CattleMarketData) Cells() []string {
	return []string{
		r.State,
		numeric.Format(r.GrossPrices.Cash),
		numeric.Format(r.GrossPrices.ThirtyDays),
		numeric.Format(r.DiscountedPrices.FunruralCash),
		numeric.Format(r.DiscountedPrices.FunruralThirtyDays),
		numeric.Format(r.DiscountedPrices.SenarCash),
		numeric.Format(r.DiscountedPrices.SenarThirtyDays),
	}
}

// Header returns the column names matching Record.Cells for the given table.
func Header(table scot.TableType) []string {
	switch table {
	case scot.TABLE_CHINA_EXPORT_BOVINE:
		return []string{"UF", "Preço bruto", "Preço livre de impostos"}
	case scot.TABLE_CATTLE_PRICE:
		return []string{"Praça Precuária", "Preço Hoje", "Preço Ontem", "Mudança de Preço"}
	default:
		return []string{
			"UF",
			"Á Vista",
			"Para 30 dias",
			"Funrural à vista",
			"Funrural para 30 dias",
			"Senar à vista",
			"Senar para 30 dias",
		}
	}
}

// FromRows builds one record per row, in row order.
func FromRows(n numeric.Normalizer, table scot.TableType, rows []pattern.Row) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		switch table {
		case scot.TABLE_CHINA_EXPORT_BOVINE:
			records = append(records, NewChinaExportBovine(n, row))
		case scot.TABLE_CATTLE_PRICE:
			records = append(records, NewCattlePrice(n, row))
		default:
			records = append(records, NewCattleMarketData(n, CattleTypeOf(table), row))
		}
	}
	return records
}

// Decode parses a record previously serialized with encoding/json.
func Decode(table scot.TableType, payload []byte) (Record, error) {
	var err error
	var record Record
	switch table {
	case scot.TABLE_CHINA_EXPORT_BOVINE:
		var r ChinaExportBovine
		err = json.Unmarshal(payload, &r)
		record = r
	case scot.TABLE_CATTLE_PRICE:
		var r CattlePrice
		err = json.Unmarshal(payload, &r)
		record = r
	case scot.TABLE_FAT_OX_PRICES, scot.TABLE_FAT_COW_PRICES, scot.TABLE_FAT_HEIFER_PRICES:
		var r CattleMarketData
		err = json.Unmarshal(payload, &r)
		record = r
	default:
		return nil, fmt.Errorf("decode: unknown table %s", table)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return record, nil
}

// Encoder writes records as indented JSON objects, one after the other, without
// escaping HTML characters.
type Encoder struct {
	json *json.Encoder
}

func NewEncoder(w io.Writer) Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return Encoder{json: encoder}
}

func (e Encoder) Encode(record Record) error {
	err := e.json.Encode(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", record.Table(), err)
	}
	return nil
}
