package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "voicepay-server/src/db/sql"
	"voicepay-server/src/intent"
	"voicepay-server/src/models"
	"voicepay-server/src/util"
)

var errMockStore = errors.New("store unavailable")

// fakeStore is an in-memory UserStore and TransactionStore.
type fakeStore struct {
	mu           sync.Mutex
	users        []*models.User
	transactions []models.Transaction
	searches     int
	err          error
}

func (s *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return db.ErrDuplicateEmail
		}
	}
	user.ID = uuid.New()
	user.Balance = 10000
	s.users = append(s.users, user)
	return nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (s *fakeStore) GetPublicUserByEmail(ctx context.Context, email string) (*models.PublicUser, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	p := u.Public()
	return &p, nil
}

func (s *fakeStore) GetPublicUserByID(_ context.Context, id uuid.UUID) (*models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			p := u.Public()
			return &p, nil
		}
	}
	return nil, db.ErrUserNotFound
}

func (s *fakeStore) SearchUsersByName(_ context.Context, fragments []string, limit int) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches++
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Contact
	for _, u := range s.users {
		name := strings.ToLower(u.Username)
		for _, f := range fragments {
			if f != "" && strings.Contains(name, strings.ToLower(f)) {
				out = append(out, models.Contact{ID: u.ID, Name: u.Username, Email: u.Email})
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) CreateTransaction(_ context.Context, receiver string, amount float64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	t := models.Transaction{ID: uuid.New(), Receiver: receiver, Amount: amount, Timestamp: time.Now()}
	s.transactions = append(s.transactions, t)
	return &t, nil
}

func (s *fakeStore) ListTransactions(_ context.Context, limit int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Transaction{}
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.transactions[i])
	}
	return out, nil
}

type stubClassifier struct {
	result intent.TranscriptIntent
	got    string
}

func (c *stubClassifier) Classify(_ context.Context, transcript string) intent.TranscriptIntent {
	c.got = transcript
	return c.result
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

const registerBody = `{
	"username": "Ravi Kumar",
	"email": "ravi@example.com",
	"password": "secret",
	"securityQuestions": [{"question": "Pet name?", "answer": "Fluffy"}]
}`

func registeredStore(t *testing.T) *fakeStore {
	t.Helper()
	store := &fakeStore{}
	w, _ := do(t, Register(store), http.MethodPost, "/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	return store
}

func TestRegister(t *testing.T) {
	store := &fakeStore{}

	w, body := do(t, Register(store), http.MethodPost, "/register", registerBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully!", body["message"])
	require.Len(t, store.users, 1)

	user := store.users[0]
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, util.CheckPassword(user.PasswordHash, "secret"))
	require.Len(t, user.SecurityQuestions, 1)
	assert.Equal(t, "Pet name?", user.SecurityQuestions[0].Question)
	assert.True(t, util.CheckAnswer(user.SecurityQuestions[0].Answer, "fluffy"))
}

func TestRegisterRejectsMissingSecurityQuestions(t *testing.T) {
	for _, body := range []string{
		`{"username":"a","email":"a@example.com","password":"p","securityQuestions":[]}`,
		`{"username":"a","email":"a@example.com","password":"p"}`,
		`{"securityQuestions":null}`,
	} {
		store := &fakeStore{}
		w, out := do(t, Register(store), http.MethodPost, "/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "At least one security question is required.", out["error"])
		assert.Empty(t, store.users)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := registeredStore(t)

	w, out := do(t, Register(store), http.MethodPost, "/register", registerBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is already registered", out["error"])
}

func TestRegisterStoreFailure(t *testing.T) {
	store := &fakeStore{err: errMockStore}

	w, out := do(t, Register(store), http.MethodPost, "/register", registerBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Registration failed", out["error"])
}

func TestLogin(t *testing.T) {
	store := registeredStore(t)
	h := Login(store)

	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "success returns a security question",
			body: `{"email":"ravi@example.com","password":"secret"}`,
			want: map[string]any{"success": true, "securityQuestion": "Pet name?"},
		},
		{
			name: "unknown email",
			body: `{"email":"nobody@example.com","password":"secret"}`,
			want: map[string]any{"success": false, "message": "User not found"},
		},
		{
			name: "wrong password",
			body: `{"email":"ravi@example.com","password":"Secret"}`,
			want: map[string]any{"success": false, "message": "Incorrect password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := do(t, h, http.MethodPost, "/login", tt.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLoginPicksOneOfTheQuestions(t *testing.T) {
	store := &fakeStore{}
	body := `{"email":"m@example.com","password":"p","securityQuestions":[
		{"question":"Q1","answer":"a"},{"question":"Q2","answer":"b"},{"question":"Q3","answer":"c"}]}`
	w, _ := do(t, Register(store), http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 10; i++ {
		_, out := do(t, Login(store), http.MethodPost, "/login", `{"email":"m@example.com","password":"p"}`)
		assert.Contains(t, []any{"Q1", "Q2", "Q3"}, out["securityQuestion"])
	}
}

func TestVerifySecurity(t *testing.T) {
	store := registeredStore(t)
	tokens := util.NewTokenIssuer("secret", time.Hour)
	h := VerifySecurity(store, tokens)

	w, out := do(t, h, http.MethodPost, "/verify-security", `{"email":"ravi@example.com","securityAnswer":"FLUFFY"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])

	user := out["user"].(map[string]any)
	assert.Equal(t, store.users[0].ID.String(), user["id"])
	assert.Equal(t, "Ravi Kumar", user["username"])
	assert.Equal(t, "ravi@example.com", user["email"])
	assert.Equal(t, float64(10000), user["balance"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "securityQuestions")

	claims, err := tokens.Parse(out["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, store.users[0].ID.String(), claims.UserID)
}

func TestVerifySecurityFailures(t *testing.T) {
	store := registeredStore(t)
	h := VerifySecurity(store, util.NewTokenIssuer("secret", time.Hour))

	_, out := do(t, h, http.MethodPost, "/verify-security", `{"email":"ravi@example.com","securityAnswer":"Rex"}`)
	assert.Equal(t, map[string]any{"success": false, "message": "Incorrect security answer"}, out)

	_, out = do(t, h, http.MethodPost, "/verify-security", `{"email":"x@example.com","securityAnswer":"fluffy"}`)
	assert.Equal(t, map[string]any{"success": false, "message": "User not found"}, out)

	store.err = errMockStore
	w, _ := do(t, h, http.MethodPost, "/verify-security", `{"email":"ravi@example.com","securityAnswer":"fluffy"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func userRouter(store UserStore) http.Handler {
	r := chi.NewRouter()
	r.Get("/user/{email}", GetUserByEmail(store))
	r.Get("/user/id/{userId}", GetUserByID(store))
	r.Get("/search-users", SearchUsers(store))
	return r
}

func TestGetUser(t *testing.T) {
	store := registeredStore(t)
	h := userRouter(store)
	id := store.users[0].ID.String()

	w, out := do(t, h, http.MethodGet, "/user/ravi@example.com", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, id, out["user"].(map[string]any)["id"])

	w, out = do(t, h, http.MethodGet, "/user/id/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ravi@example.com", out["user"].(map[string]any)["email"])

	for _, path := range []string{"/user/nobody@example.com", "/user/id/" + uuid.NewString(), "/user/id/not-a-uuid"} {
		w, out = do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, map[string]any{"success": false, "message": "User not found"}, out)
	}

	store.err = errMockStore
	w, _ = do(t, h, http.MethodGet, "/user/ravi@example.com", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSearchUsers(t *testing.T) {
	store := &fakeStore{}
	for _, name := range []string{"Ravi", "Ravindra", "Priya", "Vikram", "Arav", "Ravina", "Gaurav"} {
		store.users = append(store.users, &models.User{ID: uuid.New(), Username: name, Email: strings.ToLower(name) + "@example.com"})
	}
	h := userRouter(store)

	_, out := do(t, h, http.MethodGet, "/search-users?name=ravi", "")
	assert.Equal(t, "", out["message"])
	data := out["data"].([]any)
	assert.Len(t, data, 5)
	first := data[0].(map[string]any)
	assert.Equal(t, "Ravi", first["name"])
	assert.Equal(t, "ravi@example.com", first["email"])
	assert.Contains(t, first, "id")

	_, out = do(t, h, http.MethodGet, "/search-users?name=zzzz", "")
	assert.Equal(t, map[string]any{"message": noContactMessage, "data": []any{}}, out)
}

func TestSearchUsersShortQueryNeverHitsStore(t *testing.T) {
	store := &fakeStore{users: []*models.User{{ID: uuid.New(), Username: "a"}}}
	h := userRouter(store)

	for _, q := range []string{"", "a", "%20b%20", "%20%20%20"} {
		w, out := do(t, h, http.MethodGet, "/search-users?name="+q, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"message": noContactMessage, "data": []any{}}, out, q)
	}
	assert.Zero(t, store.searches)
}

func TestSearchUsersStoreFailure(t *testing.T) {
	h := userRouter(&fakeStore{err: errMockStore})

	w, out := do(t, h, http.MethodGet, "/search-users?name=ravi", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": "Server error", "data": []any{}}, out)
}

func TestMakePayment(t *testing.T) {
	h := MakePayment()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       map[string]any
	}{
		{
			name:       "numeric amount",
			body:       `{"receiver":"Ravi","amount":500,"senderEmail":"a@example.com"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"success": true, "message": "Payment of ₹500 to Ravi processed"},
		},
		{
			name:       "string amount",
			body:       `{"receiver":"Ravi","amount":"12.50"}`,
			wantStatus: http.StatusOK,
			want:       map[string]any{"success": true, "message": "Payment of ₹12.5 to Ravi processed"},
		},
		{
			name:       "missing receiver",
			body:       `{"amount":500}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"success": false, "message": "Invalid payment details"},
		},
		{
			name:       "zero amount",
			body:       `{"receiver":"Ravi","amount":0}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"success": false, "message": "Invalid payment details"},
		},
		{
			name:       "non numeric amount",
			body:       `{"receiver":"Ravi","amount":"lots"}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"success": false, "message": "Invalid payment details"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := do(t, h, http.MethodPost, "/make-payment", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestAddTransaction(t *testing.T) {
	store := &fakeStore{}
	h := AddTransaction(store)

	w, out := do(t, h, http.MethodPost, "/transactions/add", `{"amount":250,"recipient":"Priya"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Transaction recorded", out["message"])
	txn := out["transaction"].(map[string]any)
	assert.Equal(t, "Priya", txn["receiver"])
	assert.Equal(t, float64(250), txn["amount"])
	assert.Contains(t, txn, "timestamp")
	require.Len(t, store.transactions, 1)

	for _, body := range []string{`{"amount":250}`, `{"recipient":"Priya"}`, `{"amount":0,"recipient":"Priya"}`} {
		w, out = do(t, h, http.MethodPost, "/transactions/add", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Amount and recipient are required", out["error"])
	}

	store.err = errMockStore
	w, out = do(t, h, http.MethodPost, "/transactions/add", `{"amount":250,"recipient":"Priya"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to record transaction", out["error"])
}

func TestListTransactions(t *testing.T) {
	store := &fakeStore{}
	for _, r := range []string{"a", "b", "c"} {
		_, err := store.CreateTransaction(context.Background(), r, 10)
		require.NoError(t, err)
	}
	h := ListTransactions(store)

	w, out := do(t, h, http.MethodGet, "/transactions?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := out["transactions"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].(map[string]any)["receiver"])

	w, _ = do(t, h, http.MethodGet, "/transactions?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeTranscript(t *testing.T) {
	classifier := &stubClassifier{result: intent.TranscriptIntent{
		Intent:     intent.MakePayment,
		Parameters: intent.Parameters{Name: "ravi", Amount: 500},
	}}
	h := AnalyzeTranscript(classifier)

	w, out := do(t, h, http.MethodPost, "/analyze-transcript", `{"transcript":"Send ₹500 to Ravi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Send ₹500 to Ravi", classifier.got)
	assert.Equal(t, map[string]any{
		"intent":                "make_payment",
		"parameters":            map[string]any{"name": "ravi", "amount": float64(500)},
		"clarification_message": "",
	}, out)

	for _, body := range []string{`{}`, `{"transcript":""}`, `not json`} {
		w, out = do(t, h, http.MethodPost, "/analyze-transcript", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Transcript is required", out["error"])
	}
}

func TestAnalyzeTranscriptWithFallbackClassifier(t *testing.T) {
	h := AnalyzeTranscript(intent.NewClassifier(nil, time.Second))

	_, out := do(t, h, http.MethodPost, "/analyze-transcript", `{"transcript":"transfer money"}`)
	assert.Equal(t, "make_payment", out["intent"])
	assert.Equal(t, map[string]any{"name": "", "amount": ""}, out["parameters"])
	assert.NotEmpty(t, out["clarification_message"])
}
