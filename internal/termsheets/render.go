package termsheets

import (
	"fmt"
	"strings"
)

// renderers maps each template variant to its pure renderer. Dispatch is a
// closed table, not string-based reflection.
var renderers = map[string]func(Variables) string{
	TemplateSAFE:            renderSAFE,
	TemplateConvertibleNote: renderConvertibleNote,
	TemplatePricedEquity:    renderPricedEquity,
}

// Render produces the sheet text for a template variant.
func Render(template string, vars Variables) (string, error) {
	render, ok := renderers[template]
	if !ok {
		return "", ErrUnknownTemplate
	}
	return render(vars), nil
}

func renderSAFE(v Variables) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SIMPLE AGREEMENT FOR FUTURE EQUITY\n\n")
	fmt.Fprintf(&b, "Company: %s\n", v.CompanyName)
	fmt.Fprintf(&b, "Investor: %s\n", v.InvestorName)
	fmt.Fprintf(&b, "Purchase Amount: %s\n", usd(v.InvestmentUSD))
	if v.ValuationCapUSD > 0 {
		fmt.Fprintf(&b, "Valuation Cap: %s (post-money)\n", usd(v.ValuationCapUSD))
	}
	if v.DiscountPct > 0 {
		fmt.Fprintf(&b, "Discount Rate: %.0f%% of the price per share in the next equity financing\n", 100-v.DiscountPct)
	}
	if v.ProRataRights {
		b.WriteString("Pro Rata Rights: the Investor may participate in the next equity financing to maintain ownership.\n")
	}
	b.WriteString("\nThe SAFE converts into preferred stock at the next priced equity financing. ")
	b.WriteString("It carries no interest rate and no maturity date.\n")
	writeBoilerplate(&b, v)
	return b.String()
}

func renderConvertibleNote(v Variables) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CONVERTIBLE PROMISSORY NOTE - TERM SHEET\n\n")
	fmt.Fprintf(&b, "Company: %s\n", v.CompanyName)
	fmt.Fprintf(&b, "Investor: %s\n", v.InvestorName)
	fmt.Fprintf(&b, "Principal Amount: %s\n", usd(v.InvestmentUSD))
	rate := v.InterestRatePct
	if rate <= 0 {
		rate = 6
	}
	fmt.Fprintf(&b, "Interest Rate: %.1f%% per annum, simple interest\n", rate)
	maturity := v.MaturityMonths
	if maturity <= 0 {
		maturity = 24
	}
	fmt.Fprintf(&b, "Maturity: %d months from closing\n", maturity)
	if v.ValuationCapUSD > 0 {
		fmt.Fprintf(&b, "Conversion Cap: %s\n", usd(v.ValuationCapUSD))
	}
	if v.DiscountPct > 0 {
		fmt.Fprintf(&b, "Conversion Discount: %.0f%%\n", v.DiscountPct)
	}
	b.WriteString("\nOutstanding principal and accrued interest convert into equity at the next qualified financing.\n")
	writeBoilerplate(&b, v)
	return b.String()
}

func renderPricedEquity(v Variables) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SERIES PREFERRED STOCK FINANCING - TERM SHEET\n\n")
	fmt.Fprintf(&b, "Company: %s\n", v.CompanyName)
	fmt.Fprintf(&b, "Lead Investor: %s\n", v.InvestorName)
	fmt.Fprintf(&b, "Investment Amount: %s\n", usd(v.InvestmentUSD))
	if v.PreMoneyUSD > 0 {
		fmt.Fprintf(&b, "Pre-Money Valuation: %s\n", usd(v.PreMoneyUSD))
		fmt.Fprintf(&b, "Post-Money Valuation: %s\n", usd(v.PreMoneyUSD+v.InvestmentUSD))
	}
	if v.OptionPoolPct > 0 {
		fmt.Fprintf(&b, "Option Pool: %.1f%% of post-financing capitalization\n", v.OptionPoolPct)
	}
	pref := v.LiquidationPrefX
	if pref <= 0 {
		pref = 1
	}
	fmt.Fprintf(&b, "Liquidation Preference: %.1fx non-participating\n", pref)
	if v.BoardSeats > 0 {
		fmt.Fprintf(&b, "Board: investor designates %d director(s)\n", v.BoardSeats)
	}
	if v.ProRataRights {
		b.WriteString("Pro Rata Rights: standard participation rights in future financings.\n")
	}
	writeBoilerplate(&b, v)
	return b.String()
}

func writeBoilerplate(b *strings.Builder, v Variables) {
	b.WriteString("\n")
	if v.ClosingDate != "" {
		fmt.Fprintf(b, "Anticipated Closing: %s\n", v.ClosingDate)
	}
	state := v.GoverningLawState
	if state == "" {
		state = "Delaware"
	}
	fmt.Fprintf(b, "Governing Law: State of %s\n", state)
	b.WriteString("This term sheet is non-binding except for confidentiality and exclusivity provisions.\n")
}

func usd(amount int64) string {
	if amount <= 0 {
		return "$0"
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
