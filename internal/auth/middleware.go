package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pitchside/academy-api/internal/config"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/store"
	"github.com/pitchside/academy-api/internal/utils"
)

type ctxKey string

const ctxUserKey ctxKey = "currentUser"

func GetUserFromCtx(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ctxUserKey).(*models.User); ok {
		return u
	}
	return nil
}

// WithUser is used by tests to seed the request context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// statusBlock is the blocking screen payload for a not-yet-usable account.
type statusBlock struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

var statusBlocks = map[models.UserStatus]statusBlock{
	models.StatusPending: {
		Title:   "Account Pending Approval",
		Message: "Your account is pending approval by an administrator. You'll receive an email once your account has been approved.",
	},
	models.StatusRejected: {
		Title:   "Account Not Approved",
		Message: "Your account registration was not approved. Please contact the system administrator for more information.",
	},
	models.StatusSuspended: {
		Title:   "Account Suspended",
		Message: "Your account has been temporarily suspended. Please contact the system administrator for assistance.",
	},
	models.StatusPendingVerification: {
		Title:   "Email Verification Required",
		Message: "Please verify your email address to activate your account. Check your inbox for a verification email.",
	},
}

func blockFor(status models.UserStatus) statusBlock {
	if b, ok := statusBlocks[status]; ok {
		return b
	}
	return statusBlocks[models.StatusPending]
}

// Middleware validates the bearer JWT, loads the user and sets it in context.
// Approval gating happens in the guards below, not here, so pending accounts
// can still reach /api/user and see their own status.
func Middleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "missing authorization", nil, nil)
				return
			}
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid authorization header", nil, nil)
				return
			}
			claims, err := ParseAndValidateToken(s.Cfg, parts[1])
			if err != nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "invalid token", nil, nil)
				return
			}
			u, err := s.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "user not found", nil, nil)
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Protected requires any authenticated user. Coach/admin accounts that are
// not yet active get the blocking approval payload instead of the resource.
func Protected() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUserFromCtx(r.Context())
			if u == nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "unauthorized", map[string]string{"redirect": "/auth"}, nil)
				return
			}
			if (u.Role == models.RoleCoach || u.Role == models.RoleAdmin) && (u.Status != models.StatusActive || !u.IsActive) {
				b := blockFor(u.Status)
				utils.WriteJSONResponse(w, http.StatusForbidden, false, b.Title, map[string]interface{}{
					"title":   b.Title,
					"message": b.Message,
					"status":  u.Status,
					"logout":  true,
				}, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route on an allow-list and redirects everyone else to
// redirectTo. Accounts whose role is allowed but whose status is not active
// get the status-specific blocking payload.
//
// The ?view= override lets QA flip a guarded route into another allowed
// role's view. It only works when AllowViewOverride is set; production
// configs leave it off.
func RequireRole(cfg *config.Config, redirectTo string, allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	if redirectTo == "" {
		redirectTo = "/dashboard"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUserFromCtx(r.Context())
			if u == nil {
				utils.WriteJSONResponse(w, http.StatusUnauthorized, false, "unauthorized", map[string]string{"redirect": "/auth"}, nil)
				return
			}

			roleOK := false
			if _, ok := set[u.Role]; ok {
				roleOK = true
			}
			if !roleOK && cfg.AllowViewOverride {
				if view, ok := models.ParseRole(r.URL.Query().Get("view")); ok {
					if _, allowedView := set[view]; allowedView {
						roleOK = true
					}
				}
			}
			if !roleOK {
				utils.WriteJSONResponse(w, http.StatusForbidden, false, "forbidden", map[string]string{"redirect": redirectTo}, nil)
				return
			}

			switch u.Status {
			case models.StatusPending, models.StatusRejected, models.StatusSuspended, models.StatusPendingVerification:
				b := blockFor(u.Status)
				utils.WriteJSONResponse(w, http.StatusForbidden, false, b.Title, map[string]interface{}{
					"title":   b.Title,
					"message": b.Message,
					"status":  u.Status,
					"logout":  true,
				}, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
