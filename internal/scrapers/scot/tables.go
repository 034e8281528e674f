package scot

import (
	"fmt"
	"strings"

	"cattleprices/internal/pattern"

	"github.com/antzucaro/matchr"
)

// TableType is one of the fixed page/table combinations published by Scot Consultoria.
type TableType int

const (
	TABLE_CHINA_EXPORT_BOVINE TableType = iota
	TABLE_CATTLE_PRICE
	TABLE_FAT_OX_PRICES
	TABLE_FAT_COW_PRICES
	TABLE_FAT_HEIFER_PRICES
)

// AllTables lists every table type in the order their records are emitted.
var AllTables = []TableType{
	TABLE_CHINA_EXPORT_BOVINE,
	TABLE_CATTLE_PRICE,
	TABLE_FAT_OX_PRICES,
	TABLE_FAT_COW_PRICES,
	TABLE_FAT_HEIFER_PRICES,
}

const (
	pathFatOx      = "/cotacoes/boi-gordo/?ref=smn"
	pathIndicators = "/cotacoes/indicadores/?ref=smn"
	pathFatCow     = "/cotacoes/vaca-gorda/?ref=smn"
	pathFatHeifer  = "/cotacoes/novilha/?ref=smn"
)

// the export table header row is a `tr.conteudo` like every price row.
const exportHeaderState = "UF"

type tableInfo struct {
	slug    string
	aliases []string
	path    string
	pattern pattern.Pattern
}

var tables = map[TableType]tableInfo{
	TABLE_CHINA_EXPORT_BOVINE: {
		slug:    "china-export-bovine",
		aliases: []string{"boi china", "exportacao china", "china export"},
		path:    pathFatOx,
		pattern: pattern.MustNew(pattern.El("table",
			pattern.Rep(pattern.El("tr",
				pattern.El("td", pattern.Capture("state")),
				pattern.El("td", pattern.Capture("gross_price")),
				pattern.El("td", pattern.Capture("net_price")),
			).Where(pattern.Eq("class", "conteudo"))),
		).Where(
			pattern.Eq("cellpadding", "0"),
			pattern.Eq("cellspacing", "0"),
			pattern.Eq("width", "660px"),
		)),
	},
	TABLE_CATTLE_PRICE: {
		slug:    "cattle-price",
		aliases: []string{"indicadores", "pracas pecuarias", "cattle prices"},
		path:    pathIndicators,
		pattern: pattern.MustNew(pattern.El("table",
			pattern.Rep(pattern.El("tr",
				pattern.El("td", pattern.Capture("region")),
				pattern.El("td", pattern.Capture("price_today")),
				pattern.El("td", pattern.Capture("price_yesterday")),
				pattern.El("td",
					pattern.Capture("price_change"),
					pattern.El("img").Where(pattern.Bind("src", "market_indicator")),
				),
			).Where(pattern.Eq("class", "conteudo"))),
		)),
	},
	TABLE_FAT_OX_PRICES: {
		slug:    "fat-ox",
		aliases: []string{"boi gordo", "fat ox prices"},
		path:    pathFatOx,
		pattern: pattern.MustNew(pattern.El("table",
			pattern.Rep(pattern.El("tr",
				pattern.El("td", pattern.Capture("state")),
				pattern.El("td", pattern.Capture("cash_price")),
				pattern.El("td", pattern.Capture("price_30_days")),
				pattern.El("td", pattern.El("img").Where(pattern.Bind("src", "market_indicator"))),
				pattern.El("td", pattern.Capture("differential")),
				pattern.El("td", pattern.Capture("funrural_discount_cash")),
				pattern.El("td", pattern.Capture("funrural_discount_30_days")),
				pattern.El("td", pattern.Capture("senar_contribution_cash")),
				pattern.El("td"),
				pattern.El("td", pattern.Capture("senar_contribution_30_days")),
				pattern.El("td"),
			).Where(pattern.Eq("class", "conteudo"))),
		).Where(
			pattern.Eq("border", "0"),
			pattern.Eq("cellpadding", "0"),
			pattern.Eq("cellspacing", "0"),
			pattern.Eq("width", "660"),
			pattern.Eq("style", "margin-top: 10px"),
		)),
	},
	TABLE_FAT_COW_PRICES: {
		slug:    "fat-cow",
		aliases: []string{"vaca gorda", "fat cow prices"},
		path:    pathFatCow,
		pattern: femalePricesPattern(),
	},
	TABLE_FAT_HEIFER_PRICES: {
		slug:    "fat-heifer",
		aliases: []string{"novilha", "novilha gorda", "fat heifer prices"},
		path:    pathFatHeifer,
		pattern: femalePricesPattern(),
	},
}

// the cow and heifer pages share the same layout, which unlike the ox page
// has no differential column and no row class.
func femalePricesPattern() pattern.Pattern {
	return pattern.MustNew(pattern.El("table",
		pattern.Rep(pattern.El("tr",
			pattern.El("td", pattern.Capture("state")),
			pattern.El("td", pattern.Capture("cash_price")),
			pattern.El("td", pattern.Capture("price_30_days")),
			pattern.El("td", pattern.El("img").Where(pattern.Bind("src", "pointer"))),
			pattern.El("td", pattern.Capture("funrural_discount_cash")),
			pattern.El("td", pattern.Capture("funrural_discount_30_days")),
			pattern.El("td", pattern.Capture("senar_contribution_cash")),
			pattern.El("td"),
			pattern.El("td", pattern.Capture("senar_contribution_30_days")),
			pattern.El("td"),
		)),
	))
}

func (t TableType) info() tableInfo {
	info, ok := tables[t]
	if !ok {
		panic(fmt.Sprintf("unknown table type %d", int(t)))
	}
	return info
}

func (t TableType) String() string {
	info, ok := tables[t]
	if !ok {
		return fmt.Sprintf("TableType(%d)", int(t))
	}
	return info.slug
}

// Path returns the path of the page holding the table, relative to the site root.
func (t TableType) Path() string {
	return t.info().path
}

// Pattern returns the structural pattern used to extract the table rows.
func (t TableType) Pattern() pattern.Pattern {
	return t.info().pattern
}

// Filter drops rows that are markup artifacts rather than prices.
func (t TableType) Filter(rows []pattern.Row) []pattern.Row {
	if t != TABLE_CHINA_EXPORT_BOVINE {
		return rows
	}
	filtered := make([]pattern.Row, 0, len(rows))
	for _, row := range rows {
		if row.Get("state") == exportHeaderState {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// minimum Jaro-Winkler similarity for a fuzzy table name to be accepted.
const tableNameThreshold = 0.85

func normalizeTableName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// ParseTableType resolves a user given name (slug, alias or something close
// enough to one) into a table type.
func ParseTableType(name string) (TableType, error) {
	normalized := normalizeTableName(name)
	if normalized == "" {
		return 0, fmt.Errorf("empty table name")
	}

	best := TableType(-1)
	bestScore := 0.0
	for _, table := range AllTables {
		info := table.info()
		candidates := append([]string{info.slug}, info.aliases...)
		for _, candidate := range candidates {
			candidate = normalizeTableName(candidate)
			if candidate == normalized {
				return table, nil
			}
			score := matchr.JaroWinkler(normalized, candidate, false)
			if score > bestScore {
				best = table
				bestScore = score
			}
		}
	}

	if bestScore < tableNameThreshold {
		return 0, fmt.Errorf("unknown table %q", name)
	}
	return best, nil
}
