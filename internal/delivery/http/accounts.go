package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/internal/views"
)

func (h *Handler) registerAccountRoutes(router *mux.Router) {
	h.route(router, "GET", "/api/users", AdminArea, h.ListUsers)
	h.route(router, "POST", "/api/users", AdminArea, h.CreateUser)
	h.route(router, "PATCH", "/api/users/{id}", AdminArea, h.UpdateUser)
	h.route(router, "DELETE", "/api/users/{id}", AdminArea, h.DeleteUser)

	h.route(router, "GET", "/api/notifications", Authenticated, h.ListNotifications)
	h.route(router, "POST", "/api/notifications", Authenticated, h.CreateNotification)
	h.route(router, "DELETE", "/api/notifications", Authenticated, h.ClearNotifications)
	h.route(router, "POST", "/api/notifications/{id}/read", Authenticated, h.MarkNotificationRead)

	h.route(router, "GET", "/api/messages", Authenticated, h.ListMessages)
	h.route(router, "POST", "/api/messages", Authenticated, h.SendMessage)
	h.route(router, "POST", "/api/messages/{id}/read", Authenticated, h.MarkMessageRead)

	h.route(router, "GET", "/api/audit-logs", AdminArea, h.ListAuditLogs)
	h.route(router, "POST", "/api/audit-logs", AdminArea, h.CreateAuditLog)

	h.route(router, "GET", "/api/documents", Authenticated, h.ListDocuments)
	h.route(router, "POST", "/api/documents", Authenticated, h.CreateDocument)
	h.route(router, "DELETE", "/api/documents/{id}", BackOffice, h.DeleteDocument)
}

// targetUser is the ?userId query value, defaulting to the acting user
func targetUser(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	if u := actingUser(r); u != nil {
		return u.ID
	}
	return ""
}

// ListUsers handles GET /api/users, filtered by ?search (name or email),
// ?role and ?status
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := recordFilter(r)
	filter.Type = r.URL.Query().Get("role")
	respondOK(w, views.FilterUsers(h.store.State().Users, filter))
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddUser, "Utilisateur créé")
}

// UpdateUser handles PATCH /api/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	patch(h, w, r, store.UpdateUser, "Utilisateur mis à jour")
}

// DeleteUser handles DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	remove(h, w, r, store.DeleteUser, "Utilisateur supprimé")
}

// ListNotifications handles GET /api/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := h.store.State().Notifications
	userID := targetUser(r)
	if userID == "" {
		respondOK(w, notifications)
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]any{
			"notifications": views.NotificationsFor(notifications, userID),
			"unread":        views.UnreadNotifications(notifications, userID),
		},
	})
}

// CreateNotification handles POST /api/notifications
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddNotification, "Notification créée")
}

// MarkNotificationRead handles POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	modify(h, w, r, store.MarkNotificationRead(mux.Vars(r)["id"]), "Notification lue")
}

// ClearNotifications handles DELETE /api/notifications
func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	userID := targetUser(r)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "ID utilisateur requis")
		return
	}
	cmd := &store.ClearNotifications{UserID: userID}
	if !h.execute(w, r, cmd) {
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Notifications supprimées",
		Data:    map[string]int{"removed": cmd.Removed},
	})
}

// ListMessages handles GET /api/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages := h.store.State().Messages
	userID := targetUser(r)
	if userID == "" {
		respondOK(w, messages)
		return
	}
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]any{
			"messages": views.MessagesFor(messages, userID),
			"unread":   views.UnreadMessages(messages, userID),
		},
	})
}

// SendMessage handles POST /api/messages. The sender defaults to the acting user.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var msg domain.Message
	if !decodeBody(w, r, &msg) {
		return
	}
	if u := actingUser(r); u != nil && msg.SenderID == "" {
		msg.SenderID = u.ID
		msg.SenderName = u.Name
	}
	cmd := store.AddMessage(msg)
	if !h.execute(w, r, cmd) {
		return
	}
	respondCreated(w, "Message envoyé", cmd.Entity)
}

// MarkMessageRead handles POST /api/messages/{id}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	modify(h, w, r, store.MarkMessageRead(mux.Vars(r)["id"]), "Message lu")
}

// ListAuditLogs handles GET /api/audit-logs
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.store.State().AuditLogs)
}

// CreateAuditLog handles POST /api/audit-logs, attributing the entry to the
// acting user when the body names nobody
func (h *Handler) CreateAuditLog(w http.ResponseWriter, r *http.Request) {
	var entry domain.AuditLog
	if !decodeBody(w, r, &entry) {
		return
	}
	if u := actingUser(r); u != nil && entry.UserID == "" {
		entry.UserID = u.ID
		entry.UserName = u.Name
	}
	if entry.IPAddress == "" {
		entry.IPAddress = r.RemoteAddr
	}
	cmd := store.AddAuditLog(entry)
	if !h.execute(w, r, cmd) {
		return
	}
	respondCreated(w, "Entrée d'audit enregistrée", cmd.Entity)
}

// ListDocuments handles GET /api/documents, filtered by ?search (name or
// description), ?category and ?type
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	respondOK(w, views.FilterDocuments(h.store.State().Documents, recordFilter(r)))
}

// CreateDocument handles POST /api/documents
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, store.AddDocument, "Document ajouté")
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	remove(h, w, r, store.DeleteDocument, "Document supprimé")
}
