package http

import "net/http"

// passAuth and passLimit stand in for the real middleware so handler
// tests exercise routing and response shaping only.
func passAuth(next http.Handler) http.Handler { return next }

func passLimit(namespace string, next http.Handler) http.Handler { return next }
