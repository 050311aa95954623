package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priyansh/aletheia/internal/vision"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect book spines in a shelf photo",
	Long:  "Run object detection on a shelf photo and print the detected book spines with their bounding boxes and confidence scores.",
	RunE:  runScan,
}

var (
	scanImageFile string
	scanAPIKey    string
	scanModelID   string
)

func init() {
	scanCmd.Flags().StringVarP(&scanImageFile, "image", "i", "", "Path to shelf photo (required)")
	scanCmd.Flags().StringVar(&scanAPIKey, "api-key", "", "Detection API key (overrides DETECTION_API_KEY env var)")
	scanCmd.Flags().StringVar(&scanModelID, "model", "", "Detection model ID")

	_ = scanCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, _ []string) error {
	apiKey := scanAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("DETECTION_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("detection API key is required (set DETECTION_API_KEY environment variable or use --api-key flag)")
	}

	image, err := os.ReadFile(scanImageFile)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	opts := []vision.DetectorOption{}
	if scanModelID != "" {
		opts = append(opts, vision.WithModelID(scanModelID))
	}
	detector, err := vision.NewDetector(apiKey, opts...)
	if err != nil {
		return err
	}

	result, err := detector.Detect(context.Background(), image)
	if err != nil {
		return err
	}

	fmt.Printf("Detected %d book spines:\n", result.SpineCount())
	for _, pred := range result.Predictions {
		x0, y0, x1, y1 := pred.BoundingBox()
		fmt.Printf("- %s (%.2f) at [%.0f, %.0f, %.0f, %.0f]\n",
			pred.Class, pred.Confidence, x0, y0, x1, y1)
	}

	return nil
}
