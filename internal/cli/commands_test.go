package cli

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hotel-bidding/internal/report"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestRootCmd(t *testing.T) {
	cmd := RootCmd()
	assert.Equal(t, "bidctl", cmd.Use)
	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"route", "report", "migrate"}, names)
}

func TestRouteCmd(t *testing.T) {
	cmd := RouteCmd()
	assert.Equal(t, "route PRICE...", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("suite"))

	out := run(t, "route", "300", "$200", "90", "abc", "50")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "ACCEPTED: Suite booked at $300.00. Remaining: 9", lines[0])
	assert.Equal(t, "ACCEPTED: Deluxe booked at $200.00. Remaining: 14", lines[1])
	assert.Equal(t, "ACCEPTED: Standard booked at $90.00. Remaining: 44", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "INVALID:"))
	assert.Equal(t, "REJECTED: No room type available for $50.00. Try another price.", lines[4])
	assert.Equal(t, "Suite: 9  Deluxe: 14  Standard: 44", lines[5])
	assert.Equal(t, "Rooms left: 67", lines[6])
}

func TestRouteCmdStopsWhenSoldOut(t *testing.T) {
	out := run(t, "route", "--suite", "1", "--deluxe", "0", "--standard", "0", "300", "300", "300")
	assert.Equal(t, "ACCEPTED: Suite booked at $300.00. Remaining: 0\n"+
		"All rooms are sold out.\n"+
		"Suite: 0  Deluxe: 0  Standard: 0\n"+
		"SOLD OUT — No more rooms available.\n", out)
}

func TestRouteCmdNegativeCapacity(t *testing.T) {
	root := RootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"route", "--suite", "-1", "300"})
	assert.Error(t, root.Execute())
}

func TestReportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out := run(t, "report", "-o", path)
	assert.Contains(t, out, "wrote "+path)
	assert.Contains(t, out, "7. REJECTED: No room type available for $140.00. Try another price.")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.SheetScenarios)
	require.NoError(t, err)
	assert.Len(t, rows, len(report.ExampleScenarios)+1)
}

func TestMigrateCmd(t *testing.T) {
	cmd := MigrateCmd()
	assert.Equal(t, "migrate", cmd.Use)
	assert.Equal(t, "Apply pending database migrations", cmd.Short)
}

func TestParseArg(t *testing.T) {
	assert.Equal(t, 280.0, parseArg(" $280.00 "))
	assert.True(t, math.IsNaN(parseArg("twelve")))
}
