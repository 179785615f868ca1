package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/api"
	"raydx.com/raydx/pkg/raydx/domain"
)

const maxUploadBytes = 20 << 20 // radiograph uploads, PNG or JPEG

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))
	_ = godotenv.Load()

	config, err := common.LoadConfig(getEnv("RAYDX_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	raydx := api.NewAPI(config)
	router := setupRouter(raydx)
	server := &http.Server{
		Addr:              ":" + getEnv("PORT", "8080"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on %s", server.Addr)
	waitForShutdown(server)
}

func setupRouter(raydx api.API) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(maxUploadBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/api/regions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"regions": raydx.Regions()})
	})

	router.GET("/api/conditions/:region", func(c *gin.Context) {
		conditions := raydx.ConditionsFor(domain.RegionType(c.Param("region")))
		c.JSON(http.StatusOK, gin.H{
			"xray_type":  conditions.Region,
			"conditions": conditions.Conditions,
		})
	})

	router.GET("/api/datasets/:region", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"datasets": raydx.DatasetsFor(domain.RegionType(c.Param("region"))),
		})
	})

	router.POST("/api/analyze", func(c *gin.Context) {
		upload, err := c.FormFile("file")
		if err != nil {
			analysisError(c, http.StatusBadRequest, "missing image file")
			return
		}
		if !common.IsImageFormat(upload.Filename) {
			analysisError(c, http.StatusBadRequest, "unsupported image format (want .jpg, .jpeg or .png)")
			return
		}
		region := domain.RegionType(c.DefaultPostForm("xray_type", string(domain.RegionChest)))
		var patient domain.PatientInfo
		if patientJSON := c.PostForm("patient_info"); patientJSON != "" {
			if err := json.Unmarshal([]byte(patientJSON), &patient); err != nil {
				analysisError(c, http.StatusBadRequest, "patient_info is not valid JSON")
				return
			}
		}
		imagePath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(upload.Filename))
		if err := c.SaveUploadedFile(upload, imagePath); err != nil {
			analysisError(c, http.StatusInternalServerError, "could not store the uploaded image")
			return
		}
		defer func() {
			_ = os.Remove(imagePath)
		}()
		result, err := raydx.Analyze(imagePath, region, patient)
		if err != nil {
			analysisError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, result)
	})

	return router
}

// analysisError mirrors the shape of a successful analysis envelope, so clients can branch on
// the `success` field alone.
func analysisError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":   false,
		"error":     message,
		"timestamp": time.Now(),
	})
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
