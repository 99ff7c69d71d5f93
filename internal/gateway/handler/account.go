package handler

import (
	"net/http"

	"breathefree/internal/repository/export"
)

// HandleAccountReset archives the account's data, tears down its runtime
// state, and wipes the stores. The archive key is returned so the client can
// offer a download later.
func (h *Handler) HandleAccountReset(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}

	data, _, err := h.progresses.Get(id)
	if err != nil {
		h.logf("export progress for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not export account")
		return
	}
	// The archive carries the whole transcript, not the rehydration window.
	chat, err := h.chats.HistoryAll(id)
	if err != nil {
		h.logf("export chat for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not export account")
		return
	}

	key := ""
	if h.exports != nil {
		key, err = h.exports.Save(r.Context(), export.Archive{
			UserID:     id,
			ExportedAt: h.now().UTC(),
			Record:     rec,
			Progress:   data,
			Chat:       chat,
		})
		if err != nil {
			h.logf("archive account %s: %v", id, err)
			httpError(w, http.StatusInternalServerError, "could not archive account")
			return
		}
	}

	// Cancel any pending cooldown before the stores go away.
	h.dropRuntime(id)

	if err := h.chats.Clear(id); err != nil {
		h.logf("clear chat for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not reset account")
		return
	}
	if err := h.progresses.Delete(id); err != nil {
		h.logf("delete progress for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not reset account")
		return
	}
	if err := h.profiles.Delete(id); err != nil {
		h.logf("delete record for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not reset account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reset":      true,
		"archiveKey": key,
	})
}
