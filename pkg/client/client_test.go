package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/client"
)

const (
	testSecret   = "client-test-secret"
	testEmail    = "caja1@example.com"
	testPassword = "secreto-123"
)

// newAPI levanta la API completa sobre memoria detrás de un httptest.Server y registra un usuario.
func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	generator, err := pdf.NewMarotoPDFGenerator("USD")
	require.NoError(t, err)

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "ventas-api-test"})
	app := apphttp.NewApp("ventas-api-test", zerolog.Nop())
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		CustomerUC:  usecase.NewCustomerUseCase(store.Customers()),
		SalesUC:     sales.NewCommitSaleUseCase(store, store.Products(), store.Customers(), store.Sales(), memory.NewCartStore(), zerolog.Nop()),
		ReportUC:    analytics.NewReportUseCase(store.Sales(), store.Products(), store.Customers(), generator, time.UTC).WithSnapshot(store),
		AuthUC:      authUC,
		Store:       store,
		ServiceName: "ventas-api-test",
		JWTSecret:   testSecret,
	})

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	_, err = authUC.RegisterUser(context.Background(), dto.RegisterRequest{Email: testEmail, Password: testPassword})
	require.NoError(t, err)
	return srv
}

func signedIn(t *testing.T, baseURL string) (*client.Session, *client.Client) {
	t.Helper()
	session := client.NewSession(baseURL)
	_, err := session.SignIn(t.Context(), testEmail, testPassword)
	require.NoError(t, err)
	return session, client.New(session)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestSession_SignInInitSignOut(t *testing.T) {
	srv := newAPI(t)
	ctx := t.Context()

	session := client.NewSession(srv.URL)
	var (
		mu     sync.Mutex
		events []client.State
	)
	unsubscribe := session.Subscribe(func(st client.State) {
		mu.Lock()
		events = append(events, st)
		mu.Unlock()
	})

	st, err := session.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.True(t, st.SignedIn)
	assert.Equal(t, testEmail, st.Email)
	assert.NotEmpty(t, st.UserID)
	assert.True(t, st.ExpiresAt.After(time.Now()))
	token := session.Token()
	require.NotEmpty(t, token)

	// Otra instancia restaura la sesión con el token guardado.
	restored := client.NewSession(srv.URL)
	rst, err := restored.Init(ctx, token)
	require.NoError(t, err)
	assert.True(t, rst.SignedIn)
	assert.Equal(t, st.UserID, rst.UserID)
	assert.Equal(t, testEmail, rst.Email)

	require.NoError(t, session.SignOut(ctx))
	assert.Empty(t, session.Token())
	assert.False(t, session.State().SignedIn)

	mu.Lock()
	require.Len(t, events, 2)
	assert.True(t, events[0].SignedIn)
	assert.False(t, events[1].SignedIn)
	mu.Unlock()

	unsubscribe()
	_, err = session.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	mu.Lock()
	assert.Len(t, events, 2, "sin notificaciones tras darse de baja")
	mu.Unlock()
}

func TestSession_Rechazos(t *testing.T) {
	srv := newAPI(t)
	ctx := t.Context()

	session := client.NewSession(srv.URL)
	_, err := session.SignIn(ctx, testEmail, "incorrecta")
	require.Error(t, err)
	assert.True(t, client.IsCode(err, "UNAUTHORIZED"))
	assert.Empty(t, session.Token())

	st, err := session.Init(ctx, "token-invalido")
	require.NoError(t, err)
	assert.False(t, st.SignedIn)

	st, err = session.Init(ctx, "")
	require.NoError(t, err)
	assert.False(t, st.SignedIn)

	// Sin sesión SignOut no llama al servidor.
	assert.NoError(t, session.SignOut(ctx))
}

func TestClient_ProductCRUD(t *testing.T) {
	srv := newAPI(t)
	ctx := t.Context()
	_, c := signedIn(t, srv.URL)

	created, err := c.CreateProduct(ctx, client.ProductInput{Name: "Café", Price: decimal.RequireFromString("4.50"), Stock: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.LowStockAlert)
	assert.True(t, created.LowStock)

	updated, err := c.UpdateProduct(ctx, created.ID, client.ProductPatch{Stock: intPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Stock)
	assert.False(t, updated.LowStock)
	assert.True(t, decimal.RequireFromString("4.50").Equal(updated.Price))

	got, err := c.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Stock)

	list, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteProduct(ctx, created.ID))
	_, err = c.GetProduct(ctx, created.ID)
	assert.True(t, client.IsCode(err, "NOT_FOUND"))
}

func TestClient_SinSesion(t *testing.T) {
	srv := newAPI(t)
	c := client.New(client.NewSession(srv.URL))

	_, err := c.ListProducts(t.Context())
	assert.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestClient_TokenRechazadoCierraSesion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":"t1","user":{"id":"u1","email":"a@b.co"}}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"INVALID_TOKEN","message":"token vencido"}`))
		}
	}))
	t.Cleanup(srv.Close)

	session := client.NewSession(srv.URL)
	_, err := session.SignIn(t.Context(), "a@b.co", "x")
	require.NoError(t, err)

	var lastState client.State
	session.Subscribe(func(st client.State) { lastState = st })

	_, err = client.New(session).ListProducts(t.Context())
	require.Error(t, err)
	assert.True(t, client.IsCode(err, "INVALID_TOKEN"))
	assert.Empty(t, session.Token())
	assert.False(t, lastState.SignedIn)
}

func TestClient_Ping(t *testing.T) {
	srv := newAPI(t)
	c := client.New(client.NewSession(srv.URL))
	assert.True(t, c.Ping(t.Context()))

	srv.Close()
	assert.False(t, c.Ping(t.Context()))
}

func TestClient_Conectividad(t *testing.T) {
	srv := newAPI(t)
	_, c := signedIn(t, srv.URL)
	srv.Close()

	_, err := c.ListProducts(t.Context())
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrConnectivity))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)
	assert.False(t, client.New(client.NewSession(down.URL)).Ping(t.Context()))
}
