package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/admira-dashboard/internal/assistant"
	"github.com/AngelCh415/admira-dashboard/internal/clients"
	"github.com/AngelCh415/admira-dashboard/internal/config"
	"github.com/AngelCh415/admira-dashboard/internal/format"
	"github.com/AngelCh415/admira-dashboard/internal/ingest"
	"github.com/AngelCh415/admira-dashboard/internal/models"
	"github.com/AngelCh415/admira-dashboard/internal/store"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	cardTitle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	cardValue      = lipgloss.NewStyle().Bold(true)
	cardBox        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(30)
)

type options struct {
	dataset string
	raw     bool
	delay   time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	opts := &options{dataset: cfg.DatasetSource, delay: cfg.ChatDelay}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Dashboard de métricas y asistente de datos en la terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.dataset, "dataset", opts.dataset, "Origen del dataset (archivo .yaml/.json o URL); vacío = demo")
	root.PersistentFlags().BoolVar(&opts.raw, "raw", false, "Imprimir texto plano sin render markdown")

	askCmd := &cobra.Command{
		Use:   "ask <pregunta>",
		Short: "Hacer una pregunta al asistente",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := loadAnalyzer(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			q := strings.Join(args, " ")
			if strings.TrimSpace(q) == "" {
				return nil
			}
			return render(cmd.OutOrStdout(), an.Analyze(q).Text, opts.raw)
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Conversación interactiva (Enter envía, línea vacía se ignora)",
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := loadAnalyzer(cmd.Context(), opts, cfg)
			if err != nil {
				return err
			}
			rsp := assistant.NewResponder(an, store.NewMemoryStore(),
				assistant.WithDelay(opts.delay),
				assistant.WithLocation(cfg.DisplayTZ))
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), rsp, opts.raw)
		},
	}
	chatCmd.Flags().DurationVar(&opts.delay, "delay", opts.delay, "Espera simulada antes de cada respuesta")

	clientsCmd := &cobra.Command{
		Use:   "clients",
		Short: "Listar clientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range clients.Catalog() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-4s %-28s %s\n", c.ID, c.Initials, c.Name, dimStyle.Render(c.Industry))
			}
			return nil
		},
	}

	clientCmd := &cobra.Command{
		Use:   "client <id>",
		Short: "KPIs de un cliente (valores nuevos en cada consulta)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := clients.NewGenerator().Snapshot(args[0])
			if err != nil {
				return fmt.Errorf("client %q: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s — %s\n", cardValue.Render("TOTAL (Adquisición) - "+s.Client.Name), dimStyle.Render(s.Client.Industry))
			fmt.Fprintln(out, dimStyle.Render("Última actualización: "+format.Stamp(time.Now(), cfg.DisplayTZ)))
			for _, row := range clients.Cards(s) {
				boxes := make([]string, 0, len(row))
				for _, c := range row {
					boxes = append(boxes, cardBox.Render(cardTitle.Render(c.Title)+"\n"+cardValue.Render(c.Value)+"\n"+dimStyle.Render(c.Variation)))
				}
				fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
			}
			return nil
		},
	}

	root.AddCommand(askCmd, chatCmd, clientsCmd, clientCmd)
	return root
}

func loadAnalyzer(ctx context.Context, opts *options, cfg config.Config) (*assistant.Analyzer, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ds, err := ingest.NewLoader(ingest.NewHTTPClient(cfg.HTTPTimeout), log).Load(ctx, opts.dataset)
	if err != nil {
		return nil, err
	}
	return assistant.NewAnalyzer(ds), nil
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, rsp *assistant.Responder, raw bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	session, err := rsp.Start()
	if err != nil {
		return err
	}
	greeting, err := rsp.History(session)
	if err != nil {
		return err
	}
	for _, m := range greeting {
		if err := printMessage(out, m, raw); err != nil {
			return err
		}
	}
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		res := rsp.Submit(ctx, session, text)
		fmt.Fprintln(out, dimStyle.Render("Analizando datos..."))
		r := <-res
		if r.Err != nil {
			return r.Err
		}
		if err := printMessage(out, r.Message, raw); err != nil {
			return err
		}
	}
}

func printMessage(out io.Writer, m models.Message, raw bool) error {
	who := assistantStyle.Render("Asistente")
	if m.Role == models.RoleUser {
		who = userStyle.Render("Tú")
	}
	fmt.Fprintf(out, "%s %s\n", who, dimStyle.Render(m.Clock))
	return render(out, m.Content, raw)
}

func render(out io.Writer, text string, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(out, text)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return err
	}
	s, err := r.Render(text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, s)
	return err
}
