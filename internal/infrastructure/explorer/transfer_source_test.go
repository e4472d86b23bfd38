package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsechain-cluster-analyzer/internal/infrastructure/config"
)

func transferBody(token, timestamp string) string {
	return fmt.Sprintf(`{
		"from":{"hash":"0xAAAA"},
		"to":{"hash":"0xBBBB"},
		"total":{"value":"500"},
		"token":{"address":"%s"},
		"timestamp":"%s",
		"transaction_hash":"0xh1",
		"block_number":100
	}`, token, timestamp)
}

func newTransferSource(serverURL string) *TransferAdapter {
	client, log := newTestClient(serverURL)
	source := NewTransferAdapter(client, &config.ExplorerConfig{TransferPageLimit: 1000}, log)
	return source.(*TransferAdapter)
}

func TestTransferAdapter_GetAddressTransfers(t *testing.T) {
	t.Run("returns transfers inside the window", func(t *testing.T) {
		recent := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/addresses/0xaaaa/token-transfers", r.URL.Path)
			assert.Equal(t, "ERC-20", r.URL.Query().Get("type"))
			assert.Equal(t, "0xtoken", r.URL.Query().Get("token"))
			fmt.Fprintf(w, `{"items":[%s]}`, transferBody("0xToken", recent))
		}))
		defer server.Close()

		source := newTransferSource(server.URL)

		transfers := source.GetAddressTransfers(context.Background(), "0xaaaa", "0xtoken", 30)

		require.Len(t, transfers, 1)
		assert.Equal(t, "0xaaaa", transfers[0].From)
		assert.Equal(t, "0xbbbb", transfers[0].To)
		assert.Equal(t, "500", transfers[0].Amount)
		assert.Equal(t, "0xtoken", transfers[0].TokenAddress)
		assert.Equal(t, "0xh1", transfers[0].TxHash)
		assert.Equal(t, int64(100), transfers[0].BlockNumber)
	})

	t.Run("drops transfers older than the window", func(t *testing.T) {
		old := time.Now().UTC().AddDate(0, 0, -60).Format(time.RFC3339)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"items":[%s]}`, transferBody("0xtoken", old))
		}))
		defer server.Close()

		source := newTransferSource(server.URL)

		assert.Empty(t, source.GetAddressTransfers(context.Background(), "0xaaaa", "0xtoken", 30))
	})

	t.Run("drops transfers of other tokens", func(t *testing.T) {
		recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"items":[%s]}`, transferBody("0xother", recent))
		}))
		defer server.Close()

		source := newTransferSource(server.URL)

		assert.Empty(t, source.GetAddressTransfers(context.Background(), "0xaaaa", "0xtoken", 30))
	})

	t.Run("skips transfers with unparseable timestamps", func(t *testing.T) {
		recent := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"items":[%s,%s]}`,
				transferBody("0xtoken", "yesterday"),
				transferBody("0xtoken", recent))
		}))
		defer server.Close()

		source := newTransferSource(server.URL)

		transfers := source.GetAddressTransfers(context.Background(), "0xaaaa", "0xtoken", 30)

		assert.Len(t, transfers, 1)
	})

	t.Run("server error degrades to empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		source := newTransferSource(server.URL)

		transfers := source.GetAddressTransfers(context.Background(), "0xaaaa", "0xtoken", 30)

		assert.NotNil(t, transfers)
		assert.Empty(t, transfers)
	})
}
