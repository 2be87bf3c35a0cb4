package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/adapter/storage/memory"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerServer wires the real services over the in-memory store.
func ledgerServer(t *testing.T, rl ports.RateLimitStore, rlCfg config.RateLimitConfig) *handlerTestDeps {
	t.Helper()
	store := memory.NewStore()
	walletRepo := memory.NewWalletRepo(store)
	log := zerolog.Nop()

	router := SetupRouter(RouterDeps{
		WalletSvc:      service.NewWalletService(walletRepo, store, log),
		DepositSvc:     service.NewDepositService(walletRepo, memory.NewDepositRepo(store), store, log),
		TransferSvc:    service.NewTransferService(walletRepo, memory.NewTransferRepo(store), store, log),
		StatementSvc:   service.NewStatementService(walletRepo, memory.NewStatementRepo(store), config.StatementConfig{DefaultPageSize: 10, MaxPageSize: 100}, log),
		RateLimitStore: rl,
		RateLimit:      rlCfg,
		HealthCheckers: []ports.HealthChecker{memory.HealthCheck{}},
		Logger:         log,
	})
	return &handlerTestDeps{router: router}
}

func createWallet(t *testing.T, d *handlerTestDeps, cpf string) string {
	t.Helper()
	w := d.do(http.MethodPost, "/wallets", `{"name":"Holder","cpf":"`+cpf+`","email":"`+cpf+`@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decodeData(t, w)["wallet_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRouter_LedgerFlow(t *testing.T) {
	d := ledgerServer(t, nil, config.RateLimitConfig{})

	alice := createWallet(t, d, "11111111111")
	bob := createWallet(t, d, "22222222222")

	w := d.do(http.MethodPost, "/wallets", `{"name":"Again","cpf":"11111111111","email":"other@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = d.do(http.MethodPost, "/wallets/"+alice+"/deposits", `{"value":100}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = d.do(http.MethodPost, "/transfers", `{"sender":"`+alice+`","receiver":"`+bob+`","value":30}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = d.do(http.MethodPost, "/transfers", `{"sender":"`+alice+`","receiver":"`+bob+`","value":"70.01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "your current balance is $70.00")

	w = d.do(http.MethodGet, "/wallets/"+alice+"/statements?page=0&pageSize=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Wallet struct {
				Balance string `json:"balance"`
			} `json:"wallet"`
			Statements []struct {
				Type      string `json:"type"`
				Literal   string `json:"literal"`
				Value     string `json:"value"`
				Operation string `json:"operation"`
			} `json:"statements"`
			Pagination struct {
				TotalElements int64 `json:"total_elements"`
				TotalPages    int   `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "70.00", resp.Data.Wallet.Balance)
	require.Len(t, resp.Data.Statements, 1)
	assert.Equal(t, "transfer", resp.Data.Statements[0].Type)
	assert.Equal(t, "DEBIT", resp.Data.Statements[0].Operation)
	assert.Equal(t, "money sent to "+bob, resp.Data.Statements[0].Literal)
	assert.Equal(t, "30.00", resp.Data.Statements[0].Value)
	assert.Equal(t, int64(2), resp.Data.Pagination.TotalElements)
	assert.Equal(t, 2, resp.Data.Pagination.TotalPages)

	w = d.do(http.MethodDelete, "/wallets/"+alice, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = d.do(http.MethodPost, "/transfers", `{"sender":"`+alice+`","receiver":"`+bob+`","value":70}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = d.do(http.MethodDelete, "/wallets/"+alice, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = d.do(http.MethodDelete, "/wallets/"+alice, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = d.do(http.MethodGet, "/wallets/"+bob+"/statements", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "money received from "+alice))
}

func TestRouter_UnknownWallets(t *testing.T) {
	d := ledgerServer(t, nil, config.RateLimitConfig{})
	ghost := "00000000-0000-0000-0000-000000000001"
	known := createWallet(t, d, "33333333333")

	w := d.do(http.MethodPost, "/wallets/"+ghost+"/deposits", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = d.do(http.MethodPost, "/transfers", `{"sender":"`+ghost+`","receiver":"`+known+`","value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "sender")

	w = d.do(http.MethodGet, "/wallets/"+ghost+"/statements", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HealthOverMemoryStore(t *testing.T) {
	d := ledgerServer(t, nil, config.RateLimitConfig{})

	w := d.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"memory"`)
}

func TestRouter_RateLimitedPerGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	d := ledgerServer(t, redisStore.NewRateLimitStore(client),
		config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute})
	ghost := "00000000-0000-0000-0000-000000000001"

	for i := 0; i < 2; i++ {
		w := d.do(http.MethodGet, "/wallets/"+ghost+"/statements", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := d.do(http.MethodGet, "/wallets/"+ghost+"/statements", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Deposits count separately from statements.
	w = d.do(http.MethodPost, "/wallets/"+ghost+"/deposits", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Liveness is never limited.
	assert.Equal(t, http.StatusOK, d.do(http.MethodGet, "/", "").Code)
}

func TestRouter_WalletNameStoredVerbatim(t *testing.T) {
	d := ledgerServer(t, nil, config.RateLimitConfig{})
	name := "Tom & Jerry O'Neil <Ltd>"
	body, err := json.Marshal(map[string]string{"name": name, "cpf": "44444444444", "email": "tom@example.com"})
	require.NoError(t, err)

	w := d.do(http.MethodPost, "/wallets", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.Equal(t, name, data["name"])

	w = d.do(http.MethodGet, "/wallets/"+data["wallet_id"].(string)+"/statements", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Wallet struct {
				Name string `json:"name"`
			} `json:"wallet"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, name, resp.Data.Wallet.Name)
}

func TestRouter_StatementFarPage(t *testing.T) {
	d := ledgerServer(t, nil, config.RateLimitConfig{})
	id := createWallet(t, d, "55555555555")
	w := d.do(http.MethodPost, "/wallets/"+id+"/deposits", `{"value":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = d.do(http.MethodGet, "/wallets/"+id+"/statements?page=922337203685477581&pageSize=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			Statements []json.RawMessage `json:"statements"`
			Pagination struct {
				Page          int   `json:"page"`
				TotalElements int64 `json:"total_elements"`
				TotalPages    int   `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data.Statements)
	assert.Empty(t, resp.Data.Statements)
	assert.Equal(t, 922337203685477581, resp.Data.Pagination.Page)
	assert.Equal(t, int64(1), resp.Data.Pagination.TotalElements)
	assert.Equal(t, 1, resp.Data.Pagination.TotalPages)
}
