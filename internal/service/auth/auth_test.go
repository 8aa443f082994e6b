package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	domain "crm-service/internal/domain/auth"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store honoring the same semantics as the
// Postgres repository, including the conditional consume.
type fakeStore struct {
	mu         sync.Mutex
	phones     map[string]*domain.PhoneNumber
	users      map[string]*domain.User
	tokens     map[int64]*domain.AuthToken
	otps       []*domain.OTP
	nextOTPID  int64
	nextUserID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		phones: make(map[string]*domain.PhoneNumber),
		users:  make(map[string]*domain.User),
		tokens: make(map[int64]*domain.AuthToken),
	}
}

func (f *fakeStore) GetOrCreatePhoneNumber(_ context.Context, value string) (*domain.PhoneNumber, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pn, ok := f.phones[value]; ok {
		return pn, false, nil
	}
	pn := &domain.PhoneNumber{PhoneNumber: value, CreatedAt: time.Now()}
	f.phones[value] = pn
	return pn, true, nil
}

func (f *fakeStore) FindPhoneNumber(_ context.Context, value string) (*domain.PhoneNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pn, ok := f.phones[value]; ok {
		return pn, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) CreateOTP(_ context.Context, otp *domain.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOTPID++
	otp.ID = f.nextOTPID
	otp.CreatedAt = time.Now()
	f.otps = append(f.otps, otp)
	return nil
}

func (f *fakeStore) FindValidOTP(_ context.Context, phone, code string, now time.Time) (*domain.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Iterate backwards: most recently created wins
	for i := len(f.otps) - 1; i >= 0; i-- {
		otp := f.otps[i]
		if otp.PhoneNumber == phone && otp.Code == code && otp.IsValid && otp.ExpiresAt.After(now) {
			cp := *otp
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) ConsumeOTP(_ context.Context, id int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, otp := range f.otps {
		if otp.ID == id {
			if otp.IsValid && otp.ExpiresAt.After(now) {
				otp.IsValid = false
				return true, nil
			}
			return false, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, phone string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[phone]; ok {
		return u, nil
	}
	f.nextUserID++
	u := &domain.User{ID: f.nextUserID, PhoneNumber: phone, CreatedAt: time.Now()}
	f.users[phone] = u
	return u, nil
}

func (f *fakeStore) GetToken(_ context.Context, userID int64) (*domain.AuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[userID]; ok {
		return t, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) CreateToken(_ context.Context, t *domain.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[t.UserID]; ok {
		return errors.New("duplicate token for user")
	}
	t.CreatedAt = time.Now()
	f.tokens[t.UserID] = t
	return nil
}

func (f *fakeStore) ReplaceToken(_ context.Context, t *domain.AuthToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.CreatedAt = time.Now()
	f.tokens[t.UserID] = t
	return nil
}

func (f *fakeStore) FindUserByToken(_ context.Context, tokenString string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for userID, t := range f.tokens {
		if t.Token == tokenString {
			for _, u := range f.users {
				if u.ID == userID {
					return u, nil
				}
			}
		}
	}
	return nil, xerrors.ErrNotFound
}

func newTestService(t *testing.T, store Store) *AuthService {
	t.Helper()
	tokens, err := token.NewManager(token.Config{
		Secret:   "test-secret",
		Issuer:   "crm-service",
		Audience: "crm-users",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return NewAuthService(store, tokens, nil, nil, 5*time.Minute, zap.NewNop())
}

func registerAndIssue(t *testing.T, svc *AuthService, phone string) *domain.OTP {
	t.Helper()
	ctx := context.Background()
	_, _, err := svc.RegisterPhone(ctx, phone)
	require.NoError(t, err)
	otp, err := svc.RequestOTP(ctx, phone)
	require.NoError(t, err)
	return otp
}

func TestRequestOTP_UnregisteredPhone(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())

	_, err := svc.RequestOTP(context.Background(), "0555000000")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestRequestOTP_CodeIsFiveDigits(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())

	otp := registerAndIssue(t, svc, "0555123456")

	require.Len(t, otp.Code, 5)
	n, err := strconv.Atoi(otp.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 10000)
	assert.LessOrEqual(t, n, 99999)
	assert.True(t, otp.IsValid)
	assert.Equal(t, "0555123456", otp.PhoneNumber)
}

func TestRequestOTP_DoesNotInvalidateEarlierCodes(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	first := registerAndIssue(t, svc, "0555123456")
	_, err := svc.RequestOTP(ctx, "0555123456")
	require.NoError(t, err)

	// The first code is still usable
	_, _, err = svc.VerifyOTP(ctx, "0555123456", first.Code)
	assert.NoError(t, err)
}

func TestVerifyOTP_OneTimeUse(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	otp := registerAndIssue(t, svc, "0555123456")

	user, credential, err := svc.VerifyOTP(ctx, "0555123456", otp.Code)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, credential)

	_, _, err = svc.VerifyOTP(ctx, "0555123456", otp.Code)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	otp := registerAndIssue(t, svc, "0555123456")

	wrong := "10000"
	if otp.Code == wrong {
		wrong = "10001"
	}
	_, _, err := svc.VerifyOTP(ctx, "0555123456", wrong)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
}

func TestVerifyOTP_UnknownPhone(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())

	_, _, err := svc.VerifyOTP(context.Background(), "0555999999", "12345")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
}

func TestVerifyOTP_Expired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	var (
		mu      sync.Mutex
		current = time.Now()
	)
	svc.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	})

	otp := registerAndIssue(t, svc, "0555123456")

	mu.Lock()
	current = current.Add(5*time.Minute + time.Second)
	mu.Unlock()

	_, _, err := svc.VerifyOTP(ctx, "0555123456", otp.Code)
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredential)
}

func TestVerifyOTP_ConcurrentRace(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	otp := registerAndIssue(t, svc, "0555123456")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.VerifyOTP(ctx, "0555123456", otp.Code)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, xerrors.ErrInvalidCredential)
			failures++
		}
	}
	assert.Equal(t, 1, successes, "exactly one verification must win")
	assert.Equal(t, 1, failures)
}

func TestVerifyOTP_CredentialIsStable(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	first := registerAndIssue(t, svc, "0555123456")
	userA, credA, err := svc.VerifyOTP(ctx, "0555123456", first.Code)
	require.NoError(t, err)

	second, err := svc.RequestOTP(ctx, "0555123456")
	require.NoError(t, err)
	userB, credB, err := svc.VerifyOTP(ctx, "0555123456", second.Code)
	require.NoError(t, err)

	assert.Equal(t, userA.ID, userB.ID, "user identity is reused across logins")
	assert.Equal(t, credA, credB, "bearer credential is bound 1:1 to the user")
}

func TestVerifyOTP_ReplacesExpiredCredential(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	tokens, err := token.NewManager(token.Config{
		Secret:   "test-secret",
		Issuer:   "crm-service",
		Audience: "crm-users",
		TTL:      time.Second,
	})
	require.NoError(t, err)
	svc := NewAuthService(store, tokens, nil, nil, 5*time.Minute, zap.NewNop())
	ctx := context.Background()

	first := registerAndIssue(t, svc, "0555123456")
	_, cred1, err := svc.VerifyOTP(ctx, "0555123456", first.Code)
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	_, err = svc.Authenticate(ctx, cred1)
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)

	// A fresh login must not hand back the dead token
	second, err := svc.RequestOTP(ctx, "0555123456")
	require.NoError(t, err)
	_, cred2, err := svc.VerifyOTP(ctx, "0555123456", second.Code)
	require.NoError(t, err)

	assert.NotEqual(t, cred1, cred2)
	_, err = svc.Authenticate(ctx, cred2)
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, cred1)
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized, "the replaced token stays dead")
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	otp := registerAndIssue(t, svc, "0555123456")
	user, credential, err := svc.VerifyOTP(ctx, "0555123456", otp.Code)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, credential)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)

	// Revoking the stored row kills the credential even though the
	// signature is still valid
	store.mu.Lock()
	delete(store.tokens, user.ID)
	store.mu.Unlock()

	_, err = svc.Authenticate(ctx, credential)
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestRegisterPhone(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	_, created, err := svc.RegisterPhone(ctx, "0555 12 34 56")
	require.NoError(t, err)
	assert.True(t, created)

	pn, created, err := svc.RegisterPhone(ctx, "0555123456")
	require.NoError(t, err)
	assert.False(t, created, "normalization makes both spellings the same number")
	assert.Equal(t, "0555123456", pn.PhoneNumber)
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "0555123456", want: "0555123456"},
		{name: "spaces and dashes", in: "0555-12 34.56", want: "0555123456"},
		{name: "international prefix", in: "+213555123456", want: "+213555123456"},
		{name: "letters", in: "notaphone", wantErr: true},
		{name: "too short", in: "123", wantErr: true},
		{name: "plus does not count as a digit", in: "+1234", wantErr: true},
		{name: "plus with five digits", in: "+12345", want: "+12345"},
		{name: "empty", in: "", wantErr: true},
		{name: "plus inside", in: "05+5123456", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizePhone(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
