package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/filtering"
	"github.com/spigell/gig-matcher/internal/marketplace"
	"github.com/spigell/gig-matcher/internal/scoring"
)

const (
	PromptRefineQuery   = "Refine the search query"
	PromptToggleBadge   = "Toggle a badge filter"
	PromptChangeBudget  = "Change the hourly budget"
	PromptReportByGroup = "Report by category"
	PromptShowFilters   = "Show active filters"
	PromptDumpToFile    = "Dump workers to file"
	PromptExit          = "Exit"
	PromptBack          = "back"

	sortRoster = "roster"
	sortScore  = "score"
)

var errExit = errors.New("exit requested")

var searchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRefineQuery, PromptToggleBadge, PromptChangeBudget, PromptReportByGroup, PromptShowFilters, PromptDumpToFile, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter the worker roster and rank the results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return search(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("work-type", "", "work type: all, general, gigs or projects")
	cmd.Flags().String("gig-category", "", "gig category, applies with --work-type gigs")
	cmd.Flags().String("project-category", "", "project category, applies with --work-type projects")
	cmd.Flags().String("urgency", "", "gig urgency: asap, today, this-week or flexible")
	cmd.Flags().String("budget", "", "hourly budget bucket: 0-50, 50-100, 100-150 or 150+")
	cmd.Flags().String("location", "", "location: remote or a radius such as 25mi")
	cmd.Flags().StringSlice("badge", nil, "require at least one of these badges (repeatable)")
	cmd.Flags().StringSlice("disable-filter", nil, "turn off a filter step by name, e.g. budget (repeatable)")
	cmd.Flags().String("sort", sortRoster, "result order: roster or score")
	cmd.Flags().StringP("output", "o", "", "also save the filtered workers to this JSON file")
	cmd.Flags().BoolP("yes", "y", false, "print results and exit without the interactive menu")
	cmd.Flags().Bool("output-json", false, "print results as JSON")
}

func search(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, config, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	criteria, err := criteriaFromFlags(cmd, *config.Criteria, args)
	if err != nil {
		return err
	}

	opts, err := searchOptionsFromFlags(cmd)
	if err != nil {
		return err
	}

	roster, err := loadRoster(ctx, config, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	filtered, err := runSearch(log, roster, criteria, opts, out)
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes || opts.asJSON {
		return nil
	}

	for {
		_, action, err := searchPrompt.Run()
		if err != nil {
			return err
		}

		next, err := handleAction(action, log, criteria, opts, filtered, out)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return err
		}

		if !next.Equal(criteria) {
			criteria = next
			if filtered, err = runSearch(log, roster, criteria, opts, out); err != nil {
				return err
			}
		}
	}
}

type searchOptions struct {
	sortBy   string
	asJSON   bool
	output   string
	disabled []string
}

func searchOptionsFromFlags(cmd *cobra.Command) (searchOptions, error) {
	flags := cmd.Flags()

	var opts searchOptions
	opts.sortBy, _ = flags.GetString("sort")
	if opts.sortBy != sortRoster && opts.sortBy != sortScore {
		return opts, fmt.Errorf("invalid --sort value %q: want %s or %s", opts.sortBy, sortRoster, sortScore)
	}
	opts.asJSON, _ = flags.GetBool("output-json")
	opts.output, _ = flags.GetString("output")

	disabled, _ := flags.GetStringSlice("disable-filter")
	known := stepNames()
	for _, name := range disabled {
		name = strings.TrimSpace(name)
		if !slices.Contains(known, name) {
			return opts, fmt.Errorf("unknown filter %q: want one of %s", name, strings.Join(known, ", "))
		}
		opts.disabled = append(opts.disabled, name)
	}

	return opts, nil
}

func stepNames() []string {
	steps := filtering.Steps(filtering.DefaultCriteria())
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name())
	}
	return names
}

func searchSteps(criteria filtering.Criteria, disabled []string) []filtering.Filter {
	steps := filtering.Steps(criteria)
	for _, name := range disabled {
		filtering.DisableByName(steps, name, "disabled by flag")
	}
	return steps
}

func runSearch(log *zap.Logger, roster *marketplace.Roster, criteria filtering.Criteria, opts searchOptions, out io.Writer) (*marketplace.Roster, error) {
	filtered, _ := filtering.Run(log, searchSteps(criteria, opts.disabled), roster)
	matches := scoring.Annotate(filtered, criteria)
	if opts.sortBy == sortScore {
		matches = scoring.SortByScore(matches)
	}

	log.Info("search finished",
		zap.String("query", criteria.Query),
		zap.Int("roster", roster.Len()),
		zap.Int("found", len(matches)),
	)

	if opts.asJSON {
		if err := printJSON(out, matches); err != nil {
			log.Warn("writing json output", zap.Error(err))
		}
	} else {
		printMatches(out, matches)
	}

	if opts.output != "" {
		if err := filtered.ToFile(opts.output); err != nil {
			return filtered, fmt.Errorf("saving workers to %s: %w", opts.output, err)
		}
		log.Info("saved workers", zap.String("filename", opts.output), zap.Int("count", filtered.Len()))
	}

	return filtered, nil
}

func handleAction(action string, log *zap.Logger, criteria filtering.Criteria, opts searchOptions, filtered *marketplace.Roster, out io.Writer) (filtering.Criteria, error) {
	switch action {
	case PromptRefineQuery:
		p := promptui.Prompt{Label: "Search", Default: criteria.Query, AllowEdit: true}
		q, err := p.Run()
		if err != nil {
			return criteria, err
		}
		return criteria.WithQuery(strings.TrimSpace(q)), nil
	case PromptToggleBadge:
		return toggleBadge(criteria)
	case PromptChangeBudget:
		return changeBudget(criteria)
	case PromptReportByGroup:
		pretty, _ := json.MarshalIndent(filtered.ReportByCategory(), "", "  ")
		fmt.Fprintln(out, string(pretty))
		return criteria, nil
	case PromptShowFilters:
		printFilters(out, filtering.Describe(searchSteps(criteria, opts.disabled)))
		return criteria, nil
	case PromptDumpToFile:
		filename, err := filtered.DumpToTmpFile()
		if err != nil {
			return criteria, fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping result to file", zap.String("filename", filename))
		return criteria, nil
	case PromptExit:
		return criteria, errExit
	default:
		return criteria, fmt.Errorf("invalid action: %s", action)
	}
}

func toggleBadge(criteria filtering.Criteria) (filtering.Criteria, error) {
	items := make([]string, 0, len(marketplace.Badges())+1)
	for _, b := range marketplace.Badges() {
		mark := " "
		for _, selected := range criteria.Badges {
			if selected == b {
				mark = "x"
			}
		}
		items = append(items, fmt.Sprintf("[%s] %s", mark, b))
	}

	badgePrompt := promptui.Select{
		Label: "Choose a badge and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, selected, err := badgePrompt.Run()
	if err != nil {
		return criteria, err
	}
	if selected == PromptBack {
		return criteria, nil
	}

	return criteria.ToggleBadge(marketplace.Badges()[idx]), nil
}

func changeBudget(criteria filtering.Criteria) (filtering.Criteria, error) {
	items := []string{filtering.All}
	for _, b := range filtering.Budgets {
		items = append(items, b.Name)
	}

	budgetPrompt := promptui.Select{
		Label: fmt.Sprintf("Hourly budget (now %s)", criteria.Budget),
		Items: append(items, PromptBack),
	}

	_, selected, err := budgetPrompt.Run()
	if err != nil {
		return criteria, err
	}
	if selected == PromptBack {
		return criteria, nil
	}

	return criteria.WithBudget(selected), nil
}

// criteriaFromFlags overlays flags that were set explicitly on base.
func criteriaFromFlags(cmd *cobra.Command, base filtering.Criteria, args []string) (filtering.Criteria, error) {
	c := base.Clone()
	flags := cmd.Flags()

	for name, field := range map[string]*string{
		"work-type":        &c.WorkType,
		"gig-category":     &c.GigCategory,
		"project-category": &c.ProjectCategory,
		"urgency":          &c.Urgency,
		"budget":           &c.Budget,
		"location":         &c.Location,
	} {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return c, err
		}
		*field = value
	}

	if flags.Changed("badge") {
		badges, err := flags.GetStringSlice("badge")
		if err != nil {
			return c, err
		}
		c.Badges = nil
		for _, b := range badges {
			c.Badges = append(c.Badges, marketplace.Badge(strings.TrimSpace(b)))
		}
	}

	if len(args) > 0 {
		c.Query = args[0]
	}

	return c, nil
}

func printMatches(out io.Writer, matches []scoring.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "No workers match the current filters.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH\tID\tNAME\tTITLE\tRATE\tRATING\tLOCATION\tAVAILABILITY\tBADGES")
	for _, m := range matches {
		badges := make([]string, 0, len(m.Worker.Badges))
		for _, b := range m.Worker.ValidBadges() {
			if d, ok := marketplace.BadgeInfo(b); ok {
				badges = append(badges, d.Label)
			}
		}
		fmt.Fprintf(w, "%d%% (%s)\t%s\t%s\t%s\t$%.0f/hr\t%.1f\t%s\t%s\t%s\n",
			m.Score, m.Level, m.Worker.ID, m.Worker.Name, m.Worker.Title, m.Worker.HourlyRate,
			m.Worker.Rating, m.Worker.Location, m.Worker.Availability, strings.Join(badges, ", "),
		)
	}
	w.Flush()
}

type jsonMatch struct {
	Score  int                 `json:"score"`
	Level  scoring.Level       `json:"level"`
	Worker *marketplace.Worker `json:"worker"`
}

func printJSON(out io.Writer, matches []scoring.Match) error {
	payload := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		payload = append(payload, jsonMatch{Score: m.Score, Level: m.Level, Worker: m.Worker})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printFilters(out io.Writer, statuses []filtering.Status) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILTER\tACTIVE\tDETAILS")
	for _, s := range statuses {
		details := s.Reason
		if s.Enabled {
			parts := make([]string, 0, len(s.Details))
			for _, k := range slices.Sorted(maps.Keys(s.Details)) {
				parts = append(parts, k+"="+s.Details[k])
			}
			details = strings.Join(parts, " ")
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Enabled, details)
	}
	w.Flush()
}
