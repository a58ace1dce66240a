package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

const TaskRoofPrefetch = "roofdata.prefetch"

type RoofPrefetchPayload struct {
	Address string `json:"address"`
}

func NewRoofPrefetchTask(payload RoofPrefetchPayload) (*asynq.Task, error) {
	payload.Address = strings.TrimSpace(payload.Address)
	if payload.Address == "" {
		return nil, fmt.Errorf("roof prefetch: empty address")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRoofPrefetch, data), nil
}

func ParseRoofPrefetchPayload(task *asynq.Task) (RoofPrefetchPayload, error) {
	var payload RoofPrefetchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RoofPrefetchPayload{}, err
	}
	if strings.TrimSpace(payload.Address) == "" {
		return RoofPrefetchPayload{}, fmt.Errorf("roof prefetch: empty address: %w", asynq.SkipRetry)
	}
	return payload, nil
}
