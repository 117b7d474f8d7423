package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"nutriplan"
	"nutriplan/nutrition"
)

type Client struct {
	webhookURL string
	httpClient nutriplan.HTTPClient
}

func NewClient(webhookURL string, httpClient nutriplan.HTTPClient) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

var _ nutriplan.Notifier = (*Client)(nil)

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostMealPlan renders plan with PlanMessage and posts it to channel.
func (c *Client) PostMealPlan(ctx context.Context, channel string, plan *nutriplan.MealPlan) error {
	if plan == nil {
		return fmt.Errorf("failed to post meal plan: nil plan")
	}
	return c.PostMessage(ctx, channel, PlanMessage(plan))
}

// PlanMessage formats a plan as Slack mrkdwn: one line per meal with its
// declared total against the target, then coverage and compliance.
func PlanMessage(plan *nutriplan.MealPlan) string {
	targets := nutrition.MealTargets(plan.DailyTarget)

	var b strings.Builder
	fmt.Fprintf(&b, "*Meal plan* `%s`\n", plan.ID)

	diet := "non-vegetarian"
	if plan.Profile.Vegetarian {
		diet = "vegetarian"
	}
	fmt.Fprintf(&b, "Daily target: %d kcal (%s)\n", plan.DailyTarget, diet)
	if len(plan.ConditionsApplied) > 0 {
		fmt.Fprintf(&b, "Conditions: %s\n", strings.Join(plan.ConditionsApplied, ", "))
	}
	b.WriteString("\n")

	for _, meal := range plan.Meals() {
		foods := make([]string, 0, len(meal.Items))
		for _, it := range meal.Items {
			foods = append(foods, it.Food)
		}
		fmt.Fprintf(&b, "• *%s*: %.0f / %d kcal (%s)\n",
			mealLabel(meal.Type), meal.TotalCalories, targets.For(meal.Type), strings.Join(foods, ", "))
	}

	s := plan.DailySummary
	fmt.Fprintf(&b, "\nTotal: %.0f kcal | protein %.0fg | carbs %.0fg | fats %.0fg | fiber %.0fg\n",
		s.TotalCalories, s.TotalProtein, s.TotalCarbs, s.TotalFats, s.TotalFiber)
	fmt.Fprintf(&b, "Coverage: %.1f%%\n", plan.Coverage)
	if s.MedicalCompliance != "" {
		fmt.Fprintf(&b, "Compliance: %s\n", s.MedicalCompliance)
	}
	return b.String()
}

func mealLabel(t nutriplan.MealType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
