package pattern

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t testing.TB, document string) *html.Node {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

var cattlePrice = MustNew(El("table",
	Rep(El("tr",
		El("td", Capture("region")),
		El("td", Capture("price_today")),
		El("td", Capture("price_yesterday")),
		El("td",
			Capture("price_change"),
			El("img").Where(Bind("src", "market_indicator")),
		),
	).Where(Eq("class", "conteudo"))),
))

func TestMatchPriceChangeWithIndicator(t *testing.T) {
	doc := parse(t, `<html><body>
		<table>
			<tr class="conteudo">
				<td>MG</td><td>350,00</td><td>345,00</td><td>5,00<img src="up.png"></td>
			</tr>
		</table>
	</body></html>`)

	rows := Match(cattlePrice, doc)
	expected := []Row{{
		"region":           "MG",
		"price_today":      "350,00",
		"price_yesterday":  "345,00",
		"price_change":     "5,00",
		"market_indicator": "up.png",
	}}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchCompleteness(t *testing.T) {
	var document strings.Builder
	document.WriteString(`<table><tr><th>Praça</th><th>Hoje</th></tr>`)
	for i := 0; i < 25; i++ {
		fmt.Fprintf(
			&document,
			`<tr class="conteudo"><td>R%d</td><td>%d,00</td><td>%d,50</td><td> -%d,00 <img src="down.png"></td></tr>`,
			i, 300+i, 300+i, i,
		)
		if i%5 == 0 {
			document.WriteString(`<tr class="separador"><td colspan="4"></td></tr>`)
		}
	}
	document.WriteString(`</table>`)

	rows := Match(cattlePrice, parse(t, document.String()))
	require.Len(t, rows, 25)
	for i, row := range rows {
		require.Equal(t, fmt.Sprintf("R%d", i), row.Get("region"))
		require.Equal(t, fmt.Sprintf("%d,00", 300+i), row.Get("price_today"))
		require.Equal(t, fmt.Sprintf("-%d,00", i), row.Get("price_change"))
		require.Equal(t, "down.png", row.Get("market_indicator"))
	}
}

func TestMatchIdempotent(t *testing.T) {
	doc := parse(t, `<table>
		<tr class="conteudo"><td>SP</td><td>1.234,56</td><td>1.230,00</td><td>4,56<img src="up.png"></td></tr>
		<tr class="conteudo"><td>GO</td><td>300,00</td><td>301,00</td><td>-1,00<img src="down.png"></td></tr>
	</table>`)

	first := Match(cattlePrice, doc)
	second := Match(cattlePrice, doc)
	require.Len(t, first, 2)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("matching twice differs (-first +second):\n%s", diff)
	}
}

func TestMatchNoMatch(t *testing.T) {
	testCases := []string{
		``,
		`<p>no tables here</p>`,
		`<table><tr class="other"><td>MG</td><td>1</td><td>2</td><td>3<img src="x"></td></tr></table>`,
		`<table><tr class="conteudo"><td>MG</td><td>1</td></tr></table>`,
	}
	for _, document := range testCases {
		rows := Match(cattlePrice, parse(t, document))
		require.Empty(t, rows, document)
	}
}

func TestMatchMissingAttributePlaceholder(t *testing.T) {
	doc := parse(t, `<table><tr class="conteudo">
		<td>MG</td><td>350,00</td><td>345,00</td><td>5,00<img alt="no source"></td>
	</tr></table>`)
	require.Empty(t, Match(cattlePrice, doc))
}

func TestMatchAttributeConstraints(t *testing.T) {
	p := MustNew(El("table",
		Rep(El("tr",
			El("td", Capture("state")),
			El("td", Capture("gross_price")),
			El("td", Capture("net_price")),
		).Where(Eq("class", "conteudo"))),
	).Where(Eq("cellpadding", "0"), Eq("width", "660px")))

	doc := parse(t, `
		<table cellpadding="0" width="500px">
			<tr class="conteudo"><td>XX</td><td>1,00</td><td>2,00</td></tr>
		</table>
		<table cellpadding="0" cellspacing="0" width="660px" style="margin: 0">
			<tr class="conteudo"><td>UF</td><td>Bruto</td><td>Livre</td></tr>
			<tr class="conteudo"><td>SP</td><td>310,00</td><td>305,50</td></tr>
		</table>`)

	expected := []Row{
		{"state": "UF", "gross_price": "Bruto", "net_price": "Livre"},
		{"state": "SP", "gross_price": "310,00", "net_price": "305,50"},
	}
	if diff := cmp.Diff(expected, Match(p, doc)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchSkipsUnnamedSiblings(t *testing.T) {
	p := MustNew(El("table",
		Rep(El("tr",
			El("td", Capture("state")),
			El("td", Capture("cash_price")),
			El("td", El("img").Where(Bind("src", "pointer"))),
			El("td", Capture("funrural_cash")),
			El("td"),
			El("td", Capture("senar_30_days")),
		)),
	))

	doc := parse(t, `<table>
		<tr>
			<td>MS</td><td>290,00</td><td><img src="estavel.png"></td>
			<td>286,00</td><td></td><td>289,40</td><td></td>
		</tr>
	</table>`)

	expected := []Row{{
		"state":         "MS",
		"cash_price":    "290,00",
		"pointer":       "estavel.png",
		"funrural_cash": "286,00",
		"senar_30_days": "289,40",
	}}
	if diff := cmp.Diff(expected, Match(p, doc)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchInlineMarkupText(t *testing.T) {
	p := MustNew(El("div", Capture("value")))
	doc := parse(t, `<div> <b>1.234</b>,<i>56</i> </div>`)

	rows := Match(p, doc)
	require.Equal(t, []Row{{"value": "1.234,56"}}, rows)
}

func TestMatchNonRepeatableYieldsFirst(t *testing.T) {
	p := MustNew(El("span", Capture("value")).Where(Eq("class", "cotacao")))
	doc := parse(t, `
		<span class="cotacao">first</span>
		<span class="cotacao">second</span>`)

	require.False(t, p.Repeatable())
	require.Equal(t, []Row{{"value": "first"}}, Match(p, doc))
}

func TestMatchLiteralText(t *testing.T) {
	p := MustNew(El("p", Text("Indicador:"), El("strong", Capture("indicator"))))

	rows := Match(p, parse(t, `<p>Indicador: <strong>320,15</strong></p>`))
	require.Equal(t, []Row{{"indicator": "320,15"}}, rows)

	rows = Match(p, parse(t, `<p>Outro: <strong>320,15</strong></p>`))
	require.Empty(t, rows)
}

func TestMatchExplicitTbody(t *testing.T) {
	p := MustNew(El("table",
		El("tbody", Rep(El("tr", El("td", Capture("cell"))))),
	))
	rows := Match(p, parse(t, `<table><tr><td>a</td></tr><tr><td>b</td></tr></table>`))
	require.Equal(t, []Row{{"cell": "a"}, {"cell": "b"}}, rows)
}

func TestMatchElementDocument(t *testing.T) {
	doc := parse(t, `<table><tr class="conteudo"><td>PR</td><td>1</td><td>2</td><td>3<img src="a"></td></tr></table>`)
	var table *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			table = n
			return
		}
		for c := n.FirstChild; c != nil && table == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	rows := Match(cattlePrice, table)
	require.Len(t, rows, 1)
	require.Equal(t, "PR", rows[0].Get("region"))
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name string
		root *Element
	}{
		{name: "nil root", root: nil},
		{name: "empty tag", root: El("")},
		{name: "duplicate capture", root: El("tr", El("td", Capture("state")), El("td", Capture("state")))},
		{name: "duplicate attribute capture", root: El("td", Capture("src"), El("img").Where(Bind("src", "src")))},
		{name: "empty capture", root: El("td", Capture(""))},
		{name: "nil repeat", root: El("table", &Repeat{})},
		{name: "blank text", root: El("p", Text("  "))},
		{name: "nil child", root: El("p", nil)},
	}
	for _, test := range testCases {
		_, err := New(test.root)
		require.Error(t, err, test.name)
	}

	require.Panics(t, func() {
		MustNew(El("tr", El("td", Capture("a")), El("td", Capture("a"))))
	})
}

func TestPatternNames(t *testing.T) {
	require.Equal(
		t,
		[]string{"region", "price_today", "price_yesterday", "price_change", "market_indicator"},
		cattlePrice.Names(),
	)
	require.True(t, cattlePrice.Repeatable())
}

func TestPatternString(t *testing.T) {
	p := MustNew(El("table",
		Rep(El("tr", El("td", Capture("state"))).Where(Eq("class", "conteudo"))),
	).Where(Eq("width", "660")))
	require.Equal(
		t,
		`<table width="660">(<tr class="conteudo"><td>{{state}}</td></tr>)*</table>`,
		p.String(),
	)
}
