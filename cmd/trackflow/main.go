package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/govindrajpootecosoul/trackflow"
	"github.com/govindrajpootecosoul/trackflow/model"
	taskfs "github.com/govindrajpootecosoul/trackflow/service/dao/task/fs"
	dirfs "github.com/govindrajpootecosoul/trackflow/service/directory/fs"
	"github.com/govindrajpootecosoul/trackflow/service/event"
	"github.com/govindrajpootecosoul/trackflow/service/review"
	"github.com/govindrajpootecosoul/trackflow/service/scope"
)

var rootCmd = &cobra.Command{
	Use:   "trackflow",
	Short: "trackflow - task review workflow over a filesystem store",
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE:  runCreate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks visible under a scope",
	RunE:  runList,
}

var requestReviewCmd = &cobra.Command{
	Use:   "request-review TASK",
	Short: "Ask a reviewer to look at a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestReview,
}

var acceptCmd = &cobra.Command{
	Use:   "accept TASK",
	Short: "Accept a pending review request",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccept,
}

var declineCmd = &cobra.Command{
	Use:   "decline TASK",
	Short: "Decline a pending review request",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecline,
}

var respondCmd = &cobra.Command{
	Use:   "respond TASK",
	Short: "Approve or reject a task under review",
	Args:  cobra.ExactArgs(1),
	RunE:  runRespond,
}

var cancelReviewCmd = &cobra.Command{
	Use:   "cancel-review TASK",
	Short: "Withdraw a pending review request",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelReview,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a sample identity and project directory",
	RunE:  runSeed,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print workflow events from the journal as they arrive",
	RunE:  runWatch,
}

var (
	dataFlag      string
	configFlag    string
	actorFlag     string
	titleFlag     string
	descFlag      string
	projectFlag   string
	assigneesFlag []string
	priorityFlag  string
	statusFlag    string
	scopeFlag     string
	queryFlag     string
	sortFlag      string
	skipFlag      int
	limitFlag     int
	reviewerFlag  string
	decisionFlag  string
	commentFlag   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", ".trackflow", "Data directory (any afs URL)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (YAML or JSONC)")
	rootCmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Acting identity id")

	createCmd.Flags().StringVar(&titleFlag, "title", "", "Task title")
	createCmd.Flags().StringVar(&descFlag, "description", "", "Task description")
	createCmd.Flags().StringVar(&projectFlag, "project", "", "Project id")
	createCmd.Flags().StringSliceVar(&assigneesFlag, "assignee", nil, "Assignee id (repeatable)")
	createCmd.Flags().StringVar(&priorityFlag, "priority", "", "HIGH, MEDIUM or LOW")
	createCmd.Flags().StringVar(&statusFlag, "status", "", "Initial working status")

	listCmd.Flags().StringVar(&scopeFlag, "scope", string(scope.Mine), "mine, team, review or otherDepartment")
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Status filter; prefix with ! to negate")
	listCmd.Flags().StringVar(&projectFlag, "project", "", "Project filter")
	listCmd.Flags().StringVar(&queryFlag, "query", "", "Substring search")
	listCmd.Flags().StringVar(&sortFlag, "sort", "", "newest or alphabetical")
	listCmd.Flags().IntVar(&skipFlag, "skip", 0, "Items to skip")
	listCmd.Flags().IntVar(&limitFlag, "limit", 0, "Page size (0 selects the default)")

	requestReviewCmd.Flags().StringVar(&reviewerFlag, "reviewer", "", "Reviewer identity id")

	respondCmd.Flags().StringVar(&decisionFlag, "decision", "", "approve or reject")
	respondCmd.Flags().StringVar(&commentFlag, "comment", "", "Review comment")

	rootCmd.AddCommand(createCmd, listCmd, requestReviewCmd, acceptCmd, declineCmd, respondCmd, cancelReviewCmd, seedCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newService(ctx context.Context) (*trackflow.Service, error) {
	fs := afs.New()
	directory, err := dirfs.New(ctx, fs, dataFlag)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	options := []trackflow.Option{
		trackflow.WithTaskDAO(taskfs.New(fs, url.Join(dataFlag, "tasks"))),
		trackflow.WithIdentityDirectory(directory),
		trackflow.WithProjectDirectory(directory.ProjectView()),
	}
	if configFlag != "" {
		options = append(options, trackflow.WithConfigURL(configFlag))
	} else {
		config := trackflow.DefaultConfig()
		config.Events.Vendor = "fs"
		config.Events.JournalURL = url.Join(dataFlag, "journal")
		options = append(options, trackflow.WithConfig(config))
	}
	return trackflow.New(options...)
}

func requireActor() error {
	if actorFlag == "" {
		return fmt.Errorf("--actor is required")
	}
	return nil
}

func printTask(task *model.Task) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := requireActor(); err != nil {
		return err
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	task, err := srv.Engine().CreateTask(ctx, actorFlag, &review.TaskInput{
		Title:       titleFlag,
		Description: descFlag,
		Status:      model.Status(statusFlag),
		Priority:    model.Priority(priorityFlag),
		ProjectID:   projectFlag,
		Assignees:   assigneesFlag,
	})
	if err != nil {
		return err
	}
	return printTask(task)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireActor(); err != nil {
		return err
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	filters := &scope.Filters{
		Status:    statusFlag,
		ProjectID: projectFlag,
		Query:     queryFlag,
		Sort:      scope.Order(sortFlag),
	}
	page, err := srv.ListTasks(ctx, scope.Name(scopeFlag), actorFlag, filters, skipFlag, limitFlag)
	if err != nil {
		return err
	}
	for _, task := range page.Items {
		reviewStatus := string(task.ReviewStatusOrNone())
		if reviewStatus == "" {
			reviewStatus = "-"
		}
		fmt.Printf("%s  %-12s %-16s %s\n", task.ID, task.Status, reviewStatus, task.Title)
	}
	fmt.Printf("%d of %d\n", len(page.Items), page.Total)
	return nil
}

func runRequestReview(cmd *cobra.Command, args []string) error {
	if err := requireActor(); err != nil {
		return err
	}
	if reviewerFlag == "" {
		return fmt.Errorf("--reviewer is required")
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	task, err := srv.Engine().RequestReview(ctx, args[0], actorFlag, reviewerFlag)
	if err != nil {
		return err
	}
	return printTask(task)
}

func runAccept(cmd *cobra.Command, args []string) error {
	return settleRequest(cmd, args[0], true)
}

func runDecline(cmd *cobra.Command, args []string) error {
	return settleRequest(cmd, args[0], false)
}

func settleRequest(cmd *cobra.Command, taskID string, accept bool) error {
	if err := requireActor(); err != nil {
		return err
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	task, err := srv.Engine().AcceptReviewRequest(ctx, taskID, actorFlag, accept)
	if err != nil {
		return err
	}
	return printTask(task)
}

func runRespond(cmd *cobra.Command, args []string) error {
	if err := requireActor(); err != nil {
		return err
	}
	var decision model.ReviewStatus
	switch strings.ToLower(decisionFlag) {
	case "approve":
		decision = model.ReviewApproved
	case "reject":
		decision = model.ReviewRejected
	default:
		return fmt.Errorf("--decision must be approve or reject")
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	task, err := srv.Engine().RespondToReview(ctx, args[0], actorFlag, decision, commentFlag)
	if err != nil {
		return err
	}
	return printTask(task)
}

func runCancelReview(cmd *cobra.Command, args []string) error {
	if err := requireActor(); err != nil {
		return err
	}
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	task, err := srv.Engine().CancelReviewRequest(ctx, args[0], actorFlag)
	if err != nil {
		return err
	}
	return printTask(task)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := afs.New()
	identities := []*model.Identity{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Department: "design", Role: model.RoleUser},
		{ID: "u2", Name: "Bram", Email: "bram@example.com", Department: "design", Role: model.RoleUser},
		{ID: "u3", Name: "Hema", Email: "hema@example.com", Department: "platform", Role: model.RoleUser},
		{ID: "admin", Name: "Root", Email: "root@example.com", Department: "ops", Role: model.RoleSuperAdmin},
	}
	projects := []*model.Project{
		{ID: "p1", Name: "Atlas", Department: "design"},
		{ID: "p2", Name: "Beacon", Department: "platform"},
	}
	if err := uploadYAML(ctx, fs, url.Join(dataFlag, "identities.yaml"), identities); err != nil {
		return err
	}
	if err := uploadYAML(ctx, fs, url.Join(dataFlag, "projects.yaml"), projects); err != nil {
		return err
	}
	fmt.Printf("seeded %d identities and %d projects under %s\n", len(identities), len(projects), dataFlag)
	return nil
}

func uploadYAML(ctx context.Context, fs afs.Service, URL string, value interface{}) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return fs.Upload(ctx, URL, 0o644, strings.NewReader(string(data)))
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	defer srv.Shutdown()
	srv.Events().SetListener(func(e *event.Event[event.TaskData]) {
		fmt.Printf("%s  %-16s task=%s actor=%s\n", e.CreatedAt.Format("15:04:05"), e.Context.Kind, e.Context.TaskID, e.Context.ActorID)
	})
	<-ctx.Done()
	return nil
}
