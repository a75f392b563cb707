package httpapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/forms"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type sessionResponse struct {
	User  *models.Account `json:"user"`
	Token string          `json:"token"`
}

type userResponse struct {
	OK   bool            `json:"ok,omitempty"`
	User *models.Account `json:"user"`
}

func writeSession(w http.ResponseWriter, status int, sess *services.Session) {
	_ = writeJSON(w, status, sessionResponse{User: sess.Account, Token: sess.Token})
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	email, password, fullName := forms.Email(), forms.Password(), forms.FullName()
	if err := decodeForm(w, r, email, password, fullName); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.credentials.Register(r.Context(), email.String(), password.String(), fullName.String())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, http.StatusCreated, sess)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	email, password := forms.Email(), forms.Password()
	if err := decodeForm(w, r, email, password); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.credentials.Login(r.Context(), email.String(), password.String())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, http.StatusCreated, sess)
}

func (s *HTTPServer) checkStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.credentials.CheckStatus(r.Context(), AccountFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, http.StatusOK, sess)
}

// private echoes the caller and the request headers back.
func (s *HTTPServer) private(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, common.ErrInternalFailure)
		return
	}

	rawHeaders, headers := echoHeaders(r)

	_ = writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"message":    "Hello world Private",
		"user":       account,
		"userEmail":  account.Email,
		"rawHeaders": rawHeaders,
		"headers":    headers,
	})
}

func (s *HTTPServer) privateWithRoles(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, userResponse{OK: true, User: AccountFromContext(r.Context())})
}

func (s *HTTPServer) setRoles(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req setRolesRequest
	if err := decodeStruct(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.admin.SetRoles(r.Context(), id, req.roles())
	if err != nil {
		writeError(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, userResponse{User: account})
}

func (s *HTTPServer) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req setActiveRequest
	if err := decodeStruct(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.admin.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, userResponse{User: account})
}

func accountID(r *http.Request) (string, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return "", &common.BadRequestError{Reason: "Validation failed (uuid is expected)"}
	}
	return id.String(), nil
}

// echoHeaders returns the request headers as a flat name/value list and as
// a map keyed by lower-case name.
func echoHeaders(r *http.Request) ([]string, map[string]string) {
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	raw := []string{"Host", r.Host}
	headers := map[string]string{"host": r.Host}

	for _, name := range names {
		values := r.Header.Values(name)
		for _, v := range values {
			raw = append(raw, name, v)
		}
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}

	return raw, headers
}
