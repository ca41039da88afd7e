package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(pdfHandler *PDFHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", pdfHandler.Index).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", pdfHandler.Health).Methods("GET")
	api.HandleFunc("/formats", pdfHandler.Formats).Methods("GET")
	api.HandleFunc("/merge", pdfHandler.Merge).Methods("POST")
	api.HandleFunc("/split", pdfHandler.Split).Methods("POST")
	api.HandleFunc("/extract", pdfHandler.Extract).Methods("POST")
	api.HandleFunc("/compress", pdfHandler.Compress).Methods("POST")
	api.HandleFunc("/compress/estimate", pdfHandler.CompressEstimate).Methods("POST")
	api.HandleFunc("/convert/to-pdf", pdfHandler.ConvertToPDF).Methods("POST")
	api.HandleFunc("/convert/from-pdf", pdfHandler.ConvertFromPDF).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})

	// Self-hosted tool; the browser front-end may be served from anywhere.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
