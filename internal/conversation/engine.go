// Package conversation implements the dialogue state machine that walks
// a user from resource selection to a provisioned Azure resource.
package conversation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ammybawa/Azure-Integration-App/internal/metrics"
	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/pricing"
	"github.com/ammybawa/Azure-Integration-App/internal/provision"
	"github.com/ammybawa/Azure-Integration-App/internal/schema"
	"github.com/ammybawa/Azure-Integration-App/internal/session"
	"github.com/ammybawa/Azure-Integration-App/internal/terraform"
)

var tracer = otel.Tracer("conversation-engine")

var restartKeywords = map[string]bool{
	"restart":    true,
	"reset":      true,
	"start over": true,
	"new":        true,
}

// selectionOptions is the quick-reply list attached to resource
// selection prompts.
var selectionOptions = []string{"Virtual Machine", "Virtual Network", "Storage Account", "AKS Cluster"}

// Engine drives the conversation state machine. Messages for the same
// session are serialized through a per-session lock so concurrent
// requests cannot interleave state transitions.
type Engine struct {
	store       session.Store
	estimator   *pricing.Estimator
	generator   *terraform.Generator
	provisioner provision.Provisioner
	rgEnsurer   provision.ResourceGroupEnsurer
	metrics     *metrics.ChatMetrics

	defaultSubscription string
	provisionTimeout    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Options configures an Engine.
type Options struct {
	Store               session.Store
	Estimator           *pricing.Estimator
	Generator           *terraform.Generator
	Provisioner         provision.Provisioner
	RGEnsurer           provision.ResourceGroupEnsurer
	Metrics             *metrics.ChatMetrics
	DefaultSubscription string
	ProvisionTimeout    time.Duration
}

// NewEngine creates a conversation engine
func NewEngine(opts Options) *Engine {
	if opts.ProvisionTimeout <= 0 {
		opts.ProvisionTimeout = 10 * time.Minute
	}
	return &Engine{
		store:               opts.Store,
		estimator:           opts.Estimator,
		generator:           opts.Generator,
		provisioner:         opts.Provisioner,
		rgEnsurer:           opts.RGEnsurer,
		metrics:             opts.Metrics,
		defaultSubscription: opts.DefaultSubscription,
		provisionTimeout:    opts.ProvisionTimeout,
		locks:               make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockSession(sessionID string) func() {
	e.mu.Lock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	e.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ReleaseSession drops the per-session lock entry. Called after a
// session is deleted so the lock map does not grow unbounded.
func (e *Engine) ReleaseSession(sessionID string) {
	e.mu.Lock()
	delete(e.locks, sessionID)
	e.mu.Unlock()
}

// ProcessMessage runs one turn of the conversation: it loads the
// session, applies the state handler for the current state, records the
// exchange in the message history, and persists the updated session.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, userMessage string) (*models.ChatResponse, error) {
	ctx, span := tracer.Start(ctx, "conversation.process_message")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	unlock := e.lockSession(sessionID)
	defer unlock()

	sess, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	span.SetAttributes(attribute.String("session.state", string(sess.State)))

	userMessage = strings.TrimSpace(userMessage)
	sess.AddMessage("user", userMessage)

	resp := e.dispatch(ctx, sess, userMessage)

	sess.AddMessage("assistant", resp.Message)
	if err := e.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	if e.metrics != nil {
		e.metrics.RecordMessage(ctx, string(sess.State))
	}
	span.SetAttributes(attribute.String("session.next_state", string(sess.State)))

	return resp, nil
}

func (e *Engine) dispatch(ctx context.Context, sess *models.Session, userMessage string) *models.ChatResponse {
	// Restart commands work from any state
	if restartKeywords[strings.ToLower(userMessage)] {
		e.resetSession(sess)
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "Session reset. " + schema.ResourceTypePrompt(),
			State:     string(sess.State),
			Options:   selectionOptions,
		}
	}

	switch sess.State {
	case models.StateInitial:
		return e.handleInitial(sess)
	case models.StateResourceSelection:
		return e.handleResourceSelection(sess, userMessage)
	case models.StateSubscription:
		return e.handleSubscription(sess, userMessage)
	case models.StateResourceGroup:
		return e.handleResourceGroup(sess, userMessage)
	case models.StateRegion:
		return e.handleRegion(sess, userMessage)
	case models.StateResourceConfig:
		return e.handleResourceConfig(sess, userMessage)
	case models.StateConfirmation:
		return e.handleConfirmation(sess, userMessage)
	case models.StateExecutionMethod:
		return e.handleExecution(ctx, sess)
	case models.StateCompleted:
		return e.handleCompleted(sess, userMessage)
	default:
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "I'm not sure how to proceed. Type 'restart' to begin again.",
			State:     string(sess.State),
		}
	}
}

// resetSession returns the session to its initial prompt while keeping
// the same id and message history slot.
func (e *Engine) resetSession(sess *models.Session) {
	fresh := models.NewSession(sess.ID)
	*sess = *fresh
	sess.State = models.StateResourceSelection
}

func (e *Engine) handleInitial(sess *models.Session) *models.ChatResponse {
	sess.State = models.StateResourceSelection

	welcome := "👋 Welcome to the Azure Provisioning Assistant!\n\n" +
		"I can help you create Azure resources through a simple conversation.\n\n" +
		schema.ResourceTypePrompt()

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message:   welcome,
		State:     string(sess.State),
		Options:   selectionOptions,
	}
}

func (e *Engine) handleResourceSelection(sess *models.Session, userMessage string) *models.ChatResponse {
	rt := schema.ParseResourceSelection(userMessage)
	if rt == "" {
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "I didn't understand that. Please select a resource type:\n\n" + schema.ResourceTypePrompt(),
			State:     string(sess.State),
			Options:   []string{"Virtual Machine", "Virtual Network", "Storage Account", "AKS Cluster", "PostgreSQL", "MySQL", "SQL Database", "Cosmos DB"},
		}
	}

	sess.ResourceType = rt
	sess.State = models.StateSubscription

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message: fmt.Sprintf("Great! Let's create a %s.\n\n"+
			"Please enter your Azure Subscription ID:\n"+
			"(You can find this in the Azure Portal under Subscriptions)", rt.DisplayName()),
		State: string(sess.State),
	}
}

func (e *Engine) handleSubscription(sess *models.Session, userMessage string) *models.ChatResponse {
	subID := strings.TrimSpace(userMessage)

	// 'default' falls back to the configured subscription
	if strings.EqualFold(subID, "default") {
		subID = e.defaultSubscription
		if subID == "" {
			return &models.ChatResponse{
				SessionID: sess.ID,
				Message:   "No default subscription configured. Please enter your Subscription ID:",
				State:     string(sess.State),
			}
		}
	}

	if len(subID) < 32 {
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message: "That doesn't look like a valid Subscription ID. " +
				"Please enter a valid Azure Subscription ID (GUID format) or type 'default' to use the configured subscription:",
			State: string(sess.State),
		}
	}

	sess.SubscriptionID = subID
	sess.State = models.StateResourceGroup

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message: "Enter a Resource Group name.\n\n" +
			"• To use an existing Resource Group, enter its name\n" +
			"• To create a new one, enter: new:<resource-group-name>\n\n" +
			"Example: new:my-chatbot-rg",
		State: string(sess.State),
	}
}

func (e *Engine) handleResourceGroup(sess *models.Session, userMessage string) *models.ChatResponse {
	rgInput := strings.TrimSpace(userMessage)
	createNew := false
	rgName := rgInput

	if strings.HasPrefix(strings.ToLower(rgInput), "new:") {
		createNew = true
		rgName = strings.TrimSpace(rgInput[4:])
	}

	if rgName == "" {
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "Please enter a valid Resource Group name:",
			State:     string(sess.State),
		}
	}

	sess.ResourceGroup = rgName
	sess.CreateNewRG = createNew
	sess.State = models.StateRegion

	verb := "Using"
	if createNew {
		verb = "Will create new"
	}

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message: fmt.Sprintf("%s Resource Group: **%s**\n\n"+
			"Select an Azure region:\n\n%s\n\nOr enter any valid Azure region name:",
			verb, rgName, schema.FormatOptions(schema.PopularRegions)),
		State:   string(sess.State),
		Options: schema.PopularRegions,
	}
}

func (e *Engine) handleRegion(sess *models.Session, userMessage string) *models.ChatResponse {
	region := strings.ToLower(strings.TrimSpace(userMessage))

	// Numeric answers index into the popular regions list
	if idx, err := strconv.Atoi(region); err == nil {
		if idx >= 1 && idx <= len(schema.PopularRegions) {
			region = schema.PopularRegions[idx-1]
		}
	}

	if !schema.IsValidRegion(region) {
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message: fmt.Sprintf("'%s' is not a recognized Azure region. "+
				"Please select from the list or enter a valid region name:", region),
			State:   string(sess.State),
			Options: schema.PopularRegions,
		}
	}

	sess.Region = region
	sess.State = models.StateResourceConfig
	sess.QuestionIndex = 0

	return e.nextConfigQuestion(sess)
}

// nextConfigQuestion returns the prompt for the question at the current
// cursor, or moves to confirmation once all questions are answered.
func (e *Engine) nextConfigQuestion(sess *models.Session) *models.ChatResponse {
	questions := schema.QuestionsFor(sess.ResourceType)

	if sess.QuestionIndex >= len(questions) {
		return e.moveToConfirmation(sess)
	}

	q := questions[sess.QuestionIndex]
	message := q.Prompt
	if q.HasDefault() {
		message += fmt.Sprintf("\n(Default: %s)", q.Default)
	}
	if len(q.Options) > 0 {
		message += "\n\n" + schema.FormatOptions(q.Options)
	}

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message:   message,
		State:     string(sess.State),
		Options:   q.Options,
	}
}

func (e *Engine) handleResourceConfig(sess *models.Session, userMessage string) *models.ChatResponse {
	questions := schema.QuestionsFor(sess.ResourceType)

	if sess.QuestionIndex >= len(questions) {
		return e.moveToConfirmation(sess)
	}

	q := questions[sess.QuestionIndex]
	ok, errMsg, value := schema.ValidateAnswer(q, userMessage)
	if !ok {
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   fmt.Sprintf("❌ %s\n\nPlease try again:\n\n%s", errMsg, q.Prompt),
			State:     string(sess.State),
			Options:   q.Options,
		}
	}

	sess.CollectedParams[q.Key] = value
	sess.QuestionIndex++

	return e.nextConfigQuestion(sess)
}

func (e *Engine) moveToConfirmation(sess *models.Session) *models.ChatResponse {
	config := schema.BuildConfig(sess.ResourceType, sess.CollectedParams)
	sess.Config = config
	sess.State = models.StateConfirmation

	estimate := e.estimator.Estimate(sess.ResourceType, config)
	summary := sess.Summary()

	message := confirmationMessage(sess, config, &estimate)

	return &models.ChatResponse{
		SessionID:       sess.ID,
		Message:         message,
		State:           string(sess.State),
		Options:         []string{"yes", "terraform", "no", "edit"},
		ResourceSummary: summary,
		CostEstimate:    &estimate,
	}
}

func (e *Engine) handleConfirmation(sess *models.Session, userMessage string) *models.ChatResponse {
	choice := strings.ToLower(strings.TrimSpace(userMessage))

	switch {
	case choice == "yes" || choice == "y" || choice == "create" || choice == "proceed":
		sess.ExecutionMethod = models.ExecutionMethodAzureSDK
		sess.State = models.StateExecutionMethod
		// Creation happens on the next turn so the client sees the
		// in-progress response first.
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "Creating resource via Azure SDK...\n\nThis may take a few minutes. Please wait.",
			State:     string(models.StateCreating),
		}

	case choice == "terraform" || choice == "tf":
		code, err := e.generator.Generate(sess.ResourceType, sess.ResourceGroup, sess.Region, sess.Config, sess.CreateNewRG)
		if err != nil {
			sess.State = models.StateError
			return &models.ChatResponse{
				SessionID: sess.ID,
				Message:   fmt.Sprintf("❌ **An error occurred**\n\nError: %v\n\nType 'restart' to try again.", err),
				State:     string(sess.State),
				Error:     err.Error(),
			}
		}

		sess.ExecutionMethod = models.ExecutionMethodTerraform
		sess.State = models.StateCompleted

		return &models.ChatResponse{
			SessionID: sess.ID,
			Message: "Here's your Terraform configuration:\n\n" +
				"```hcl\n" + code + "\n```\n\n" +
				"**To use this Terraform code:**\n" +
				"1. Save it to a file named `main.tf`\n" +
				"2. Set environment variables: ARM_CLIENT_ID, ARM_CLIENT_SECRET, ARM_TENANT_ID, ARM_SUBSCRIPTION_ID\n" +
				"3. Run `terraform init`\n" +
				"4. Run `terraform plan`\n" +
				"5. Run `terraform apply`\n\n" +
				"Type 'restart' to create another resource.",
			State:         string(sess.State),
			TerraformCode: code,
		}

	case choice == "no" || choice == "n" || choice == "cancel":
		e.resetSession(sess)
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "Resource creation cancelled.\n\n" + schema.ResourceTypePrompt(),
			State:     string(sess.State),
			Options:   selectionOptions,
		}

	case choice == "edit" || choice == "modify" || choice == "change":
		// Underscore-prefixed entries are identity metadata the gateway
		// attached at session creation, not answers; keep them.
		params := make(map[string]interface{})
		for k, v := range sess.CollectedParams {
			if strings.HasPrefix(k, "_") {
				params[k] = v
			}
		}
		sess.CollectedParams = params
		sess.QuestionIndex = 0
		sess.State = models.StateResourceConfig
		return e.nextConfigQuestion(sess)

	default:
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message: "Please respond with:\n" +
				"• 'yes' to create via Azure SDK\n" +
				"• 'terraform' to generate Terraform code\n" +
				"• 'no' to cancel\n" +
				"• 'edit' to modify configuration",
			State:   string(sess.State),
			Options: []string{"yes", "terraform", "no", "edit"},
		}
	}
}

func (e *Engine) handleExecution(ctx context.Context, sess *models.Session) *models.ChatResponse {
	ctx, span := tracer.Start(ctx, "conversation.execute_creation")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.type", string(sess.ResourceType)),
		attribute.String("resource.region", sess.Region),
	)

	ctx, cancel := context.WithTimeout(ctx, e.provisionTimeout)
	defer cancel()

	start := time.Now()

	if sess.CreateNewRG && e.rgEnsurer != nil {
		if err := e.rgEnsurer.EnsureResourceGroup(ctx, sess.SubscriptionID, sess.ResourceGroup, sess.Region); err != nil {
			return e.executionFailed(ctx, sess, err.Error(), start)
		}
	}

	result, err := e.provisioner.Create(ctx, provision.Request{
		ResourceType:   sess.ResourceType,
		SubscriptionID: sess.SubscriptionID,
		ResourceGroup:  sess.ResourceGroup,
		Region:         sess.Region,
		Config:         sess.Config,
	})
	if err != nil {
		return e.executionFailed(ctx, sess, err.Error(), start)
	}
	if !result.Success {
		sess.State = models.StateError
		if e.metrics != nil {
			e.metrics.RecordResourceFailed(ctx, string(sess.ResourceType), "creation_failed", time.Since(start))
		}
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message: fmt.Sprintf("❌ **Resource Creation Failed**\n\nError: %s\n\n"+
				"Type 'restart' to try again or 'terraform' to get Terraform code instead.", result.Error),
			State: string(sess.State),
			Error: result.Error,
		}
	}

	sess.State = models.StateCompleted
	if e.metrics != nil {
		e.metrics.RecordResourceCreated(ctx, string(sess.ResourceType), sess.Region, time.Since(start))
	}
	log.Printf(`{"level":"info","component":"conversation","msg":"resource created","session_id":"%s","resource_type":"%s","resource_id":"%s"}`,
		sess.ID, sess.ResourceType, result.ResourceID)

	return &models.ChatResponse{
		SessionID:       sess.ID,
		Message:         creationSuccessMessage(result),
		State:           string(sess.State),
		CreatedResource: result,
	}
}

func (e *Engine) executionFailed(ctx context.Context, sess *models.Session, errMsg string, start time.Time) *models.ChatResponse {
	sess.State = models.StateError
	if e.metrics != nil {
		e.metrics.RecordResourceFailed(ctx, string(sess.ResourceType), "error", time.Since(start))
	}
	log.Printf(`{"level":"error","component":"conversation","msg":"resource creation failed","session_id":"%s","resource_type":"%s","error":"%s"}`,
		sess.ID, sess.ResourceType, errMsg)

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message:   fmt.Sprintf("❌ **An error occurred**\n\nError: %s\n\nType 'restart' to try again.", errMsg),
		State:     string(sess.State),
		Error:     errMsg,
	}
}

func (e *Engine) handleCompleted(sess *models.Session, userMessage string) *models.ChatResponse {
	switch strings.ToLower(userMessage) {
	case "restart", "new", "another", "reset":
		e.resetSession(sess)
		return &models.ChatResponse{
			SessionID: sess.ID,
			Message:   "Let's create another resource!\n\n" + schema.ResourceTypePrompt(),
			State:     string(sess.State),
			Options:   selectionOptions,
		}
	}

	return &models.ChatResponse{
		SessionID: sess.ID,
		Message:   "Resource creation complete! Type 'restart' to create another resource.",
		State:     string(sess.State),
	}
}
