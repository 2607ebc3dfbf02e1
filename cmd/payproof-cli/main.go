// payproof-cli submits one payment proof from the terminal, running the
// same workflow the service runs. Storage credentials come from the
// environment (STORAGE_BASE_URL, STORAGE_KEY).
package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/BEAUVILLE/abos/config"
	"github.com/BEAUVILLE/abos/internal/registrar"
	"github.com/BEAUVILLE/abos/internal/storage"
	"github.com/BEAUVILLE/abos/internal/workflow"
	"github.com/BEAUVILLE/abos/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "payproof-cli",
		Short:   "Submit payment proofs against pending orders",
		Version: Version,
	}

	rootCmd.AddCommand(submitCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func submitCmd() *cobra.Command {
	var order models.Order

	cmd := &cobra.Command{
		Use:   "submit [proof-image]",
		Short: "Upload a proof image and register the payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(&order, args[0])
		},
	}

	cmd.Flags().StringVar(&order.Phone, "phone", "", "payer phone number (required)")
	cmd.Flags().Int64Var(&order.Amount, "amount", 0, "amount in the smallest currency unit (required)")
	cmd.Flags().StringVar(&order.Module, "module", "POS", "product module code")
	cmd.Flags().StringVar(&order.Plan, "plan", "standard", "pricing plan")
	cmd.Flags().StringVar(&order.Slug, "slug", "", "merchant slug (generated when empty)")
	cmd.Flags().StringVar(&order.City, "city", "", "merchant city")
	cmd.Flags().StringVar(&order.ProName, "pro-name", "", "merchant name")
	cmd.Flags().StringVar(&order.BoostCode, "boost-code", "", "promotional code")
	cmd.Flags().Float64Var(&order.BoostAmount, "boost-amount", 0, "promotional amount")
	cmd.Flags().StringVar(&order.Reference, "reference", "", "pre-assigned payment reference")

	return cmd
}

func runSubmit(order *models.Order, proofPath string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	artifact, err := loadArtifact(proofPath)
	if err != nil {
		return err
	}

	logger := zap.NewNop().Sugar()
	uploader := storage.NewClient(cfg, logger)
	reg := registrar.NewClient(cfg, logger)
	flow := workflow.NewOrchestrator(cfg, uploader, reg, nil, logger, "cli")

	receipt, err := flow.Submit(context.Background(), order, artifact)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	fmt.Printf("payment registered\n")
	fmt.Printf("  id:        %s\n", receipt.Record.ID)
	fmt.Printf("  reference: %s\n", receipt.Record.Reference)
	fmt.Printf("  proof:     %s/%s\n", receipt.Object.Bucket, receipt.Object.Path)
	fmt.Printf("  wait page: %s\n", receipt.RedirectURL)
	return nil
}

func loadArtifact(path string) (*models.ProofArtifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proof image: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	return &models.ProofArtifact{
		Content:     content,
		ContentType: contentType,
		Size:        int64(len(content)),
		Filename:    filepath.Base(path),
	}, nil
}
