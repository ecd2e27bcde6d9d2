package termsheets

import (
	"strings"
	"testing"
)

func baseVars() Variables {
	return Variables{
		CompanyName:   "Acme Robotics",
		InvestorName:  "Northstar Ventures",
		InvestmentUSD: 500000,
	}
}

func TestRenderSAFE(t *testing.T) {
	vars := baseVars()
	vars.ValuationCapUSD = 8000000
	vars.DiscountPct = 20
	vars.ProRataRights = true

	body, err := Render(TemplateSAFE, vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"SIMPLE AGREEMENT FOR FUTURE EQUITY",
		"Acme Robotics",
		"Northstar Ventures",
		"$500,000",
		"$8,000,000",
		"Pro Rata Rights",
		"no interest rate and no maturity date",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderConvertibleNoteDefaults(t *testing.T) {
	body, err := Render(TemplateConvertibleNote, baseVars())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "6.0% per annum") {
		t.Error("default interest rate missing")
	}
	if !strings.Contains(body, "24 months") {
		t.Error("default maturity missing")
	}
}

func TestRenderPricedEquity(t *testing.T) {
	vars := baseVars()
	vars.InvestmentUSD = 2000000
	vars.PreMoneyUSD = 8000000
	vars.BoardSeats = 1

	body, err := Render(TemplatePricedEquity, vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "Post-Money Valuation: $10,000,000") {
		t.Error("post-money not computed from pre-money plus investment")
	}
	if !strings.Contains(body, "1.0x non-participating") {
		t.Error("default liquidation preference missing")
	}
	if !strings.Contains(body, "investor designates 1 director") {
		t.Error("board seat clause missing")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("handshake", baseVars()); err != ErrUnknownTemplate {
		t.Fatalf("err = %v, want ErrUnknownTemplate", err)
	}
}

func TestUSDFormatting(t *testing.T) {
	cases := map[int64]string{
		0:        "$0",
		999:      "$999",
		1000:     "$1,000",
		1234567:  "$1,234,567",
		25000000: "$25,000,000",
	}
	for amount, want := range cases {
		if got := usd(amount); got != want {
			t.Errorf("usd(%d) = %q, want %q", amount, got, want)
		}
	}
}
