package store

import (
	"context"
	"testing"

	"github.com/goliatone/go-tracklog/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestDefaultVisitorEnricher(t *testing.T) {
	ctx := context.Background()
	enricher := DefaultVisitorEnricher()

	record, err := enricher.Enrich(ctx, types.VisitorLog{
		IP:        "127.0.0.1",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Mobile/15E148 Safari/604.1",
	})
	require.NoError(t, err)
	require.Equal(t, "LOCAL", record.CountryCode)
	require.Equal(t, "mobile", record.DeviceType)
	require.Equal(t, "Safari", record.Browser)

	record, err = enricher.Enrich(ctx, types.VisitorLog{
		IP:        "203.0.113.9",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0.0.0 Safari/537.36",
	})
	require.NoError(t, err)
	require.Equal(t, "UN", record.CountryCode)
	require.Equal(t, "desktop", record.DeviceType)
	require.Equal(t, "Chrome", record.Browser)

	// Preset values are never overwritten.
	record, err = enricher.Enrich(ctx, types.VisitorLog{
		IP:          "203.0.113.9",
		UserAgent:   "Mozilla/5.0 Firefox/128.0",
		CountryCode: "DE",
	})
	require.NoError(t, err)
	require.Equal(t, "DE", record.CountryCode)
	require.Equal(t, "Firefox", record.Browser)
}

func TestBrowserName(t *testing.T) {
	require.Equal(t, "Edge", BrowserName("Mozilla/5.0 Chrome/126.0 Safari/537.36 Edg/126.0"))
	require.Equal(t, "IE", BrowserName("Mozilla/5.0 (Windows NT 6.1; Trident/7.0)"))
	require.Equal(t, "Unknown", BrowserName("ELinks/0.17"))
}

func TestDeviceType(t *testing.T) {
	require.Equal(t, "tablet", DeviceType("Mozilla/5.0 (iPad; CPU OS 17_0)"))
	require.Equal(t, "mobile", DeviceType("Mozilla/5.0 (Linux; Android 14)"))
	require.Equal(t, "desktop", DeviceType("Mozilla/5.0 (X11; Linux x86_64)"))
}

func TestVisitorEnricherChainStopsOnError(t *testing.T) {
	ctx := context.Background()
	boom := VisitorEnricherFunc(func(_ context.Context, record types.VisitorLog) (types.VisitorLog, error) {
		return record, context.Canceled
	})
	chain := VisitorEnricherChain{DefaultVisitorEnricher(), boom}

	original := types.VisitorLog{IP: "203.0.113.9"}
	record, err := chain.Enrich(ctx, original)
	require.Error(t, err)
	require.Equal(t, original, record)
}
