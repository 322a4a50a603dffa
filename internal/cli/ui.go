package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/vector"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorValue  = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text such as the spinner message.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleValue   = lipgloss.NewStyle().Foreground(colorValue)
	styleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleKey    = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleSymbol = lipgloss.NewStyle().Foreground(colorAccent).Width(4)
	styleName   = lipgloss.NewStyle().Foreground(colorValue).Width(16)
	styleClass  = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
)

// status icons, each with its color.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	markFile = StyleDim.Render("→")

	tagCached = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	tagFresh  = lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
)

// =============================================================================
// Status Output
// =============================================================================

func printStatus(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printStatus(markOK, format, args...) }
func printInfo(format string, args ...any)    { printStatus(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	printStatus(markWarn, "%s", styleWarning.Render(fmt.Sprintf(format, args...)))
}

// PrintError prints err to stderr, hiding internal detail behind the
// error's user message.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, markFail+" "+errors.UserMessage(err))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + markFile + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println("  " + styleKey.Render(key) + " " + styleValue.Render(value))
}

func printNewline() { fmt.Println() }

// =============================================================================
// Render Report
// =============================================================================

func num(v float64) string {
	return styleNumber.Render(strconv.FormatFloat(v, 'g', 4, 64))
}

// printReport prints the node counts on one line followed by the magnitude
// and length ranges.
func printReport(r vector.Report, cached bool) {
	parts := []string{fmt.Sprintf("%d drawn", r.Drawn)}
	if r.NoData > 0 {
		parts = append(parts, fmt.Sprintf("%d no-data", r.NoData))
	}
	if r.Zero > 0 {
		parts = append(parts, fmt.Sprintf("%d zero", r.Zero))
	}
	if r.Outside > 0 {
		parts = append(parts, fmt.Sprintf("%d outside", r.Outside))
	}

	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, tagCached)
	} else {
		parts = append(parts, tagFresh)
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))

	if r.Drawn == 0 {
		return
	}
	printKeyValue("magnitude", fmt.Sprintf("%s .. %s (mean %s)", num(r.MagMin), num(r.MagMax), num(r.MagMean)))
	if r.ConstantLength {
		printKeyValue("length", "constant")
		return
	}
	printKeyValue("length", fmt.Sprintf("%s .. %s %s (mean %s)", num(r.LenMin), num(r.LenMax), r.LenUnit, num(r.LenMean)))
}

// printLegend prints the legend reference vector.
func printLegend(l vector.Legend) {
	fmt.Println(styleTitle.Render("Legend"))
	printKeyValue("label", l.Label)
	printKeyValue("value", num(l.Value))
	printKeyValue("length", fmt.Sprintf("%s in (%s cm)", num(l.Length), num(l.Length*2.54)))
}

// =============================================================================
// Units Table
// =============================================================================

func printUnitsHeader() {
	fmt.Println(styleTitle.Render("Units"))
}

func printUnit(symbol, name, class, size string) {
	fmt.Println("  " + styleSymbol.Render(symbol) + styleName.Render(name) + styleClass.Render(class) + StyleDim.Render(size))
}
