package imoveis

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// classifyStorageError maps a repository failure to a status code and the
// short pt-BR label of the error body. Classification happens exactly once,
// at the handler boundary:
//   - integrity violations (SQLSTATE class 23) → 409
//   - connection-class failures → 503
//   - anything else → 500
func classifyStorageError(err error) (int, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return http.StatusConflict, "Conflito de dados"
		case strings.HasPrefix(pgErr.Code, "08"):
			return http.StatusServiceUnavailable, "Banco de dados indisponível"
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable, "Banco de dados indisponível"
	}

	msg := strings.ToLower(err.Error())
	connKeywords := []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"timeout",
		"no such host",
		"network is unreachable",
		"broken pipe",
		"bad connection",
		"closed network connection",
		"failed to connect",
	}
	for _, kw := range connKeywords {
		if strings.Contains(msg, kw) {
			return http.StatusServiceUnavailable, "Banco de dados indisponível"
		}
	}

	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		return http.StatusConflict, "Conflito de dados"
	}

	return http.StatusInternalServerError, "Erro interno do servidor"
}
