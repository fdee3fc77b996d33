package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"brandpilot.io/marketing-backend/internal/auth"
	"brandpilot.io/marketing-backend/internal/core"
	"brandpilot.io/marketing-backend/internal/store"
)

// TokenValidator turns a bearer token into the username it was issued for.
// Pluggable so a revocation check can be added without changing the signing
// contract.
type TokenValidator func(token string) (string, error)

type APIHandler struct {
	credentials    store.CredentialStore
	contentService *core.ContentService
	chatService    *core.ChatService
	validateToken  TokenValidator
}

func NewAPIHandler(credentials store.CredentialStore, cs *core.ContentService, chat *core.ChatService) *APIHandler {
	return &APIHandler{
		credentials:    credentials,
		contentService: cs,
		chatService:    chat,
		validateToken:  auth.ValidateJWT,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		username, err := h.validateToken(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), usernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const usernameContextKey contextKey = "username"

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	if err := h.credentials.Add(req.Username, hashedPassword); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("Error creating user %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Signup successful"})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	cred, err := h.credentials.FindByUsername(req.Username)
	if err != nil {
		log.Printf("Error looking up user %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	if cred == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	if !auth.CheckPasswordHash(req.Password, cred.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Wrong password")
		return
	}

	token, err := auth.GenerateJWT(req.Username)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type GenerateContentRequest struct {
	Prompt string `json:"prompt"`
}

func (h *APIHandler) GenerateContentHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content, err := h.contentService.GenerateContent(r.Context(), req.Prompt)
	if err != nil {
		h.writeContentError(w, "Prompt required", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

type KeywordsRequest struct {
	Topic string `json:"topic"`
}

func (h *APIHandler) KeywordsHandler(w http.ResponseWriter, r *http.Request) {
	var req KeywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	keywords, err := h.contentService.Keywords(r.Context(), req.Topic)
	if err != nil {
		h.writeContentError(w, "Topic required", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keywords": keywords})
}

type StrategyRequest struct {
	Business string `json:"business"`
}

func (h *APIHandler) StrategyHandler(w http.ResponseWriter, r *http.Request) {
	var req StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	strategy, err := h.contentService.Strategy(r.Context(), req.Business)
	if err != nil {
		h.writeContentError(w, "Business name required", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"strategy": strategy})
}

type EmailRequest struct {
	Details string `json:"details"`
}

func (h *APIHandler) EmailHandler(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, err := h.contentService.Email(r.Context(), req.Details)
	if err != nil {
		h.writeContentError(w, "Email details required", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

// writeContentError maps content-service failures to HTTP statuses: a missing
// field is the caller's fault, everything else is an upstream failure.
func (h *APIHandler) writeContentError(w http.ResponseWriter, missingFieldMsg string, err error) {
	if errors.Is(err, core.ErrMissingField) {
		writeError(w, http.StatusBadRequest, missingFieldMsg)
		return
	}
	log.Printf("Content generation error: %v", err)
	writeError(w, http.StatusInternalServerError, "AI generation failed")
}

type SaveChatRequest struct {
	UserMessage string `json:"userMessage"`
	AIResponse  string `json:"aiResponse"`
}

func (h *APIHandler) SaveChatHandler(w http.ResponseWriter, r *http.Request) {
	var req SaveChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.chatService.SaveChat(req.UserMessage, req.AIResponse); err != nil {
		log.Printf("Error saving chat record: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save chat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

type ChatMessageResponse struct {
	Reply  string            `json:"reply"`
	Record *store.ChatRecord `json:"record"`
}

// ChatMessageHandler is the atomic complete-and-log chat operation: the reply
// is only returned once the exchange has been persisted.
func (h *APIHandler) ChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.chatService.SendMessage(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, core.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "Message required")
			return
		}
		log.Printf("Error handling chat message: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	writeJSON(w, http.StatusOK, ChatMessageResponse{
		Reply:  record.AIResponse,
		Record: record,
	})
}

type ChatHistoryResponse struct {
	Records    []store.ChatRecord `json:"records"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	cursor := r.URL.Query().Get("cursor")

	records, nextCursor, err := h.chatService.History(limit, cursor)
	if err != nil {
		log.Printf("Error listing chat history: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list chat history")
		return
	}
	if records == nil {
		records = []store.ChatRecord{}
	}

	writeJSON(w, http.StatusOK, ChatHistoryResponse{
		Records:    records,
		NextCursor: nextCursor,
	})
}
