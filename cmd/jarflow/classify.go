package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sixjars/jarflow/internal/classify"
	"github.com/sixjars/jarflow/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		description string
		merchant    string
		amount      float64
		userID      string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single transaction locally using the rule-based classifier",
		Long: `Runs one transaction through the classification pipeline without the
remote model endpoint. Useful for checking rule and jar behavior.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Local classification needs no API keys or endpoints, so the
			// full config (and its validation) is skipped.
			engine := classify.NewEngine(nil, classify.Config{
				ReviewThreshold:  viper.GetFloat64("classification.review_threshold"),
				BatchConcurrency: 1,
			})

			txn := model.Transaction{
				ID:          "local",
				UserID:      userID,
				Description: description,
				Merchant:    merchant,
				Amount:      amount,
			}

			result, err := engine.Classify(cmd.Context(), txn)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant name")
	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount (negative = outflow)")
	cmd.Flags().StringVar(&userID, "user", "local", "user id")
	if err := cmd.MarkFlagRequired("description"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	return cmd
}
