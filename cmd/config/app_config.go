package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"smart-fridge-backend/domain"
	"smart-fridge-backend/internal/api/handlers"
	"smart-fridge-backend/internal/api/presenters"
	"smart-fridge-backend/internal/api/routes"
	"smart-fridge-backend/internal/middleware"
	"smart-fridge-backend/internal/utils"
	"smart-fridge-backend/internal/utils/mailing"
	"smart-fridge-backend/internal/utils/storage"
	"smart-fridge-backend/pkg/capture"
	"smart-fridge-backend/pkg/detection"
	"smart-fridge-backend/pkg/history"
	"smart-fridge-backend/pkg/inventory"
	"smart-fridge-backend/pkg/scan"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const bodyLimit = 16 * 1024 * 1024

// NewApp wires the fridge backend. db may be nil when history is kept in a file.
// The returned cleanup closes the capture channel and the access log.
func NewApp(db *gorm.DB) (*fiber.App, func(), error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate
	ctx := context.Background()

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     io.MultiWriter(file, os.Stdout),
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		cfg, err := LoadAWSConfig(ctx)
		if err != nil {
			return aws.Config{}, err
		}
		awsCfg = &cfg
		return cfg, nil
	}

	detector, err := newDetector(loadAWS)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	checkDetector(ctx, detector)

	imageStorage, staticDir, err := newImageStorage(loadAWS)
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	// Repository
	historyRepository := newHistoryRepository(db)

	// Service
	detectionService := detection.NewDetectionService(detector, nil)
	inventoryService := inventory.NewInventoryService()
	historyService := history.NewHistoryService(historyRepository)
	scanService := scan.NewScanService(detectionService, inventoryService, historyService, imageStorage, newNotifier())

	publisher := newCapturePublisher()
	captureService := capture.NewCaptureService(publisher, utils.GetConfig("MQTT_CAPTURE_TOPIC"))

	seed := historyService.LoadLatest(ctx)
	inventoryService.Seed(seed)
	log.Infof("Loaded %d items from detection history", len(seed))

	// Handler
	homeHandler := handlers.NewHomeHandler(inventoryService, detectionService)
	detectionHandler := handlers.NewDetectionHandler(scanService, historyService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, scanService, validator)
	captureHandler := handlers.NewCaptureHandler(captureService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		HomeHandler:      homeHandler,
		DetectionHandler: detectionHandler,
		InventoryHandler: inventoryHandler,
		CaptureHandler:   captureHandler,
		Middleware:       middlewares,
		StaticDir:        staticDir,
	}
	routesConfig.Setup()

	cleanup := func() {
		if publisher != nil {
			publisher.Close()
		}
		file.Close()
	}
	return app, cleanup, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return presenters.ErrorResponse(c, fiberErr.Code, fiberErr.Message, err)
	}
	log.Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageInternalServerError, err)
}

func newDetector(loadAWS func() (aws.Config, error)) (detection.Detector, error) {
	switch backend := utils.GetConfig("DETECTOR_BACKEND"); backend {
	case "rekognition":
		cfg, err := loadAWS()
		if err != nil {
			return nil, err
		}
		log.Info("Using AWS Rekognition detector")
		return detection.NewRekognitionDetector(rekognition.NewFromConfig(cfg)), nil
	case "", "inference":
		url := utils.GetConfig("INFERENCE_URL")
		log.Infof("Using inference detector at %s", url)
		return detection.NewInferenceDetector(url, utils.GetDurationConfig("INFERENCE_TIMEOUT", 60*time.Second)), nil
	default:
		return nil, errors.New("unknown DETECTOR_BACKEND: " + backend)
	}
}

func checkDetector(ctx context.Context, detector detection.Detector) {
	checker, ok := detector.(detection.HealthChecker)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := checker.CheckHealth(ctx); err != nil {
		log.Warnf("Detector %s is not healthy yet: %v", detector.Name(), err)
	}
}

func newImageStorage(loadAWS func() (aws.Config, error)) (storage.ImageStorage, string, error) {
	if utils.GetConfig("IMAGE_STORAGE") == "s3" {
		cfg, err := loadAWS()
		if err != nil {
			return nil, "", err
		}
		log.Infof("Storing images in s3://%s", utils.GetConfig("AWS_S3_BUCKET"))
		return storage.NewAwsS3(s3.NewFromConfig(cfg), utils.GetConfig("AWS_S3_BUCKET"), utils.GetConfig("AWS_S3_REGION")), "", nil
	}

	root := utils.GetConfig("UPLOAD_FOLDER")
	if err := os.MkdirAll(filepath.Join(root, "images"), os.ModePerm); err != nil {
		return nil, "", err
	}
	return storage.NewLocalStorage(root, "/static"), root, nil
}

func newHistoryRepository(db *gorm.DB) history.HistoryRepository {
	if utils.GetConfig("HISTORY_DRIVER") == "postgres" && db != nil {
		log.Info("Keeping detection history in postgres")
		return history.NewGormHistoryRepository(db)
	}
	path := utils.GetConfig("HISTORY_FILE")
	log.Infof("Keeping detection history in %s", path)
	return history.NewFileHistoryRepository(path)
}

func newNotifier() scan.Notifier {
	to := utils.GetConfig("NOTIFY_EMAIL")
	if to == "" || !mailing.LoadMailConfig().Configured() {
		return nil
	}
	return mailing.NewDetectionNotifier(to, mailing.SendMail)
}

// newCapturePublisher returns nil without a broker so the capture service only acknowledges.
func newCapturePublisher() capture.Publisher {
	broker := utils.GetConfig("MQTT_BROKER")
	if broker == "" {
		return nil
	}
	publisher := capture.NewMQTTPublisher(broker, utils.GetConfig("MQTT_CLIENT_ID"))
	if err := publisher.Connect(); err != nil {
		log.Warnf("MQTT broker %s unreachable, retrying in background: %v", broker, err)
	}
	return publisher
}
