package readmodel

import (
	"fmt"
	"sort"

	"github.com/karilint/bones/internal/domain"
	"github.com/karilint/bones/internal/routes"
)

// InstanceSummary groups one workflow run's responses under its instance
// number, with a deep link into the workflow list.
type InstanceSummary struct {
	InstanceNumber int
	Workflows      []domain.CompletedWorkflow
	Responses      []domain.CompletedResponse
	URL            string
}

// GroupInstances buckets workflows and their responses by the workflow's
// instance number. Responses inherit the instance from the workflow they
// belong to; skipped responses and responses without a known workflow are
// discarded. Responses are ordered by question number (stable), groups by
// instance number.
func GroupInstances(occurrenceID uint, workflows []domain.CompletedWorkflow, responses []domain.CompletedResponse) []InstanceSummary {
	instanceByWorkflow := make(map[string]int, len(workflows))
	groups := make(map[int]*InstanceSummary)

	appendGroup := func(instance int) *InstanceSummary {
		group, ok := groups[instance]
		if !ok {
			group = &InstanceSummary{
				InstanceNumber: instance,
				URL:            instanceURL(occurrenceID, instance),
			}
			groups[instance] = group
		}
		return group
	}

	for _, workflow := range workflows {
		instance := 0
		if workflow.InstanceNumber != nil {
			instance = *workflow.InstanceNumber
		}
		instanceByWorkflow[workflow.UID] = instance
		group := appendGroup(instance)
		group.Workflows = append(group.Workflows, workflow)
	}

	for _, response := range responses {
		if response.Skipped || response.WorkflowUID == nil {
			continue
		}
		instance, ok := instanceByWorkflow[*response.WorkflowUID]
		if !ok {
			continue
		}
		group := appendGroup(instance)
		group.Responses = append(group.Responses, response)
	}

	result := make([]InstanceSummary, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group.Responses, func(i, j int) bool {
			return responseOrder(group.Responses[i]) < responseOrder(group.Responses[j])
		})
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].InstanceNumber < result[j].InstanceNumber
	})
	return result
}

// responseOrder sorts nil question numbers after everything else.
func responseOrder(response domain.CompletedResponse) int {
	if response.QuestionNumber == nil {
		return int(^uint(0) >> 1)
	}
	return *response.QuestionNumber
}

func instanceURL(occurrenceID uint, instance int) string {
	base := routes.Resolve("bones:workflows:list", nil)
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s?occurrence=%d&instance_number=%d", base, occurrenceID, instance)
}
