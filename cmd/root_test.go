package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelabs-dash/config"
	"pricelabs-dash/pricelabs"
	"pricelabs-dash/utils"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "tui", "report", "snapshot"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewSourceHonoursDirect(t *testing.T) {
	cfg = &config.Config{
		BaseURL:            config.DefaultBaseURL,
		ProxyURL:           "http://127.0.0.1:3000/api/pricelabs/listings",
		UpstreamTimeoutSec: 5,
	}
	l := utils.NopLogger()
	t.Cleanup(func() { direct = false })

	direct = false
	_, ok := newSource(l).(*pricelabs.ProxyClient)
	assert.True(t, ok)

	direct = true
	_, ok = newSource(l).(*pricelabs.LocalSource)
	assert.True(t, ok)
}

func TestReportFlags(t *testing.T) {
	f := reportCmd.Flags()
	require.NotNil(t, f.Lookup("sort"))
	require.NotNil(t, f.Lookup("csv"))
	assert.Equal(t, "o", f.Lookup("out").Shorthand)
}
