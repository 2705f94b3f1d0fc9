package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/receiptsplit/internal/auth"
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/export"
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/sanitizer"
	"github.com/mmynk/receiptsplit/internal/service"
)

var (
	scanModel      string
	scanNoFallback bool
	scanImport     bool
	scanPlatform   string
	scanDate       string

	summaryFormat string

	tokenClient string
)

var scanCmd = &cobra.Command{
	Use:   "scan FILE",
	Short: "Extract line items from a receipt image or PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		result, err := a.extraction.Process(ctx, doc, scanModel, a.extraction.AutoFallback() && !scanNoFallback)
		if err != nil {
			return err
		}
		slog.Info("Receipt extracted", "model", result.ModelUsed, "fell_back", result.FellBack, "items", len(result.Extraction.Items))

		if !scanImport {
			return writeJSON(cmd.OutOrStdout(), result.Extraction)
		}
		return importExtraction(ctx, a, cmd.OutOrStdout(), result)
	},
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [FILE]",
	Short: "Repair discount signs and the round-off line of an extraction JSON",
	Long: `Reads an extraction as JSON from FILE, or stdin when FILE is omitted or "-",
and writes the sanitized extraction to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var raw models.RawExtraction
		if err := json.NewDecoder(in).Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode extraction: %w", err)
		}

		san := sanitizer.New(sanitizer.Options{
			RoundOffThreshold: cfg.Sanitizer.RoundOffThreshold,
			Epsilon:           cfg.Sanitizer.Epsilon,
		})
		out, report := san.Sanitize(raw)
		for _, f := range report.Flipped {
			slog.Info("Discount sign flipped", "name", f.Name, "before", f.Before.String(), "after", f.After.String())
		}
		if ro := report.RoundOff; ro != nil {
			slog.Info("Round-off reconciled", "name", ro.Name, "corrected", ro.Corrected, "skipped", string(ro.Skipped))
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the split summary of all stored receipts",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(summaryFormat)
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		groups, splits, people, err := loadAll(cmd.Context(), a)
		if err != nil {
			return err
		}
		content, err := export.Generate(groups, splits, people, format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Print who owes whom for receipts with a recorded payer",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		groups, splits, people, err := loadAll(cmd.Context(), a)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(people))
		for _, p := range people {
			names[p.ID] = p.Name
		}

		_, debts := calculator.SettleUp(groups, splits, people)
		out := cmd.OutOrStdout()
		if len(debts) == 0 {
			_, err := fmt.Fprintln(out, "All settled up.")
			return err
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, d := range debts {
			fmt.Fprintf(w, "%s\towes\t%s\t%.2f\n", names[d.From], names[d.To], d.Amount)
		}
		return w.Flush()
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewJWTManager(cfg.Auth.Secret, cfg.TokenTTL())
		if err != nil {
			return fmt.Errorf("auth.secret must be configured to issue tokens: %w", err)
		}
		token, err := manager.Generate(tokenClient)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the extraction models",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		current, err := a.extraction.ResolveModel("")
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tJSON\t")
		for _, m := range a.extraction.Catalog().Models() {
			marker := ""
			if m.ID == current.ID {
				marker = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\n", m.ID, m.DisplayName, m.Priority, m.SupportsJSONMode, marker)
		}
		return w.Flush()
	},
}

var modelsCheckCmd = &cobra.Command{
	Use:   "check [MODEL...]",
	Short: "Probe which models are reachable with the configured API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAVAILABLE\tDETAIL")
		for _, s := range a.extraction.CheckAvailability(cmd.Context(), args) {
			detail := s.Error
			if s.Available {
				detail = fmt.Sprintf("input %d / output %d tokens", s.InputTokenLimit, s.OutputTokenLimit)
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", s.ModelID, s.Available, detail)
		}
		return w.Flush()
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanModel, "model", "m", "", "model ID (default: the selected model)")
	scanCmd.Flags().BoolVar(&scanNoFallback, "no-fallback", false, "fail instead of retrying on the next model when rate limited")
	scanCmd.Flags().BoolVar(&scanImport, "import", false, "store the extraction as a receipt")
	scanCmd.Flags().StringVar(&scanPlatform, "platform", "", "platform name for the imported receipt")
	scanCmd.Flags().StringVar(&scanDate, "date", "", "date for the imported receipt (YYYY-MM-DD)")

	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "text", "output format: text, markdown, html or csv")

	tokenCmd.Flags().StringVar(&tokenClient, "client", "", "client name recorded in the token")
	_ = tokenCmd.MarkFlagRequired("client")

	modelsCmd.AddCommand(modelsCheckCmd)
}

// readDocument loads a receipt file. The MIME type comes from the
// extension, or from the content when the extension is unknown.
func readDocument(path string) (extraction.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extraction.Document{}, err
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return extraction.Document{Data: data, MIMEType: mimeType, Filename: filepath.Base(path)}, nil
}

func importExtraction(ctx context.Context, a *app, out io.Writer, result *extraction.Result) error {
	svc := service.NewReceiptService(a.store)
	resp, err := svc.ImportExtraction(ctx, connect.NewRequest(&service.ImportExtractionRequest{
		Platform:   scanPlatform,
		Date:       scanDate,
		Extraction: result.Extraction,
		ModelUsed:  result.ModelUsed,
	}))
	if err != nil {
		return err
	}
	slog.Info("Receipt imported", "group_id", resp.Msg.Receipt.ID, "merged", resp.Msg.Merged)
	return writeJSON(out, resp.Msg.Receipt)
}

func loadAll(ctx context.Context, a *app) ([]models.ReceiptGroup, map[string]models.SplitAssignment, []models.Person, error) {
	groups, err := a.store.ListGroups(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	splits, err := a.store.ListSplits(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	people, err := a.store.ListPeople(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return groups, splits, people, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
