package queue

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTask(t *testing.T) {
	task, err := decodeTask(map[string]interface{}{
		bodyField: `{"task_id":"t-1","merchant_id":"m-1","file_id":"f-1","file_url":"https://x/exam.docx"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", task.TaskID)
	assert.Equal(t, "m-1", task.MerchantID)
	assert.Equal(t, "https://x/exam.docx", task.FileURL)
}

func TestDecodeTaskMissingBody(t *testing.T) {
	_, err := decodeTask(map[string]interface{}{"other": "x"})
	assert.Error(t, err)
}

func TestDecodeTaskInvalidJSON(t *testing.T) {
	_, err := decodeTask(map[string]interface{}{bodyField: "{not json"})
	assert.Error(t, err)
}

func TestDecodeTaskRequiresTaskID(t *testing.T) {
	_, err := decodeTask(map[string]interface{}{bodyField: `{"file_url":"https://x"}`})
	assert.Error(t, err)
}

func TestNewConsumerDefaults(t *testing.T) {
	c := NewConsumer(nil, nil, nil, ConsumerOptions{
		TaskStream: "tasks",
		Group:      "g",
	}, zerolog.Nop())

	assert.NotEmpty(t, c.opts.Consumer, "consumer name is generated when unset")
	assert.Equal(t, 5*time.Second, c.opts.Block)
	assert.Equal(t, int64(3), c.opts.MaxDeliveries)
	assert.Equal(t, 30*time.Second, c.opts.ClaimMinIdle)
}
