package volcengine

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"autosrt/internal/logging"
	"autosrt/internal/services"
)

const (
	sampleRate   = 16000
	channelCount = 1
)

// TaskHandle identifies one in-flight transcription job.
type TaskHandle struct {
	TaskID string `json:"task_id"`
	LogID  string `json:"log_id"`
}

type submitRequest struct {
	User    submitUser    `json:"user"`
	Audio   submitAudio   `json:"audio"`
	Request submitOptions `json:"request"`
}

type submitUser struct {
	UID string `json:"uid"`
}

type submitAudio struct {
	Data       string `json:"data"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Channel    int    `json:"channel"`
}

type submitOptions struct {
	ModelName          string `json:"model_name"`
	EnableChannelSplit bool   `json:"enable_channel_split"`
	EnableDDC          bool   `json:"enable_ddc"`
	EnableSpeakerInfo  bool   `json:"enable_speaker_info"`
	EnablePunc         bool   `json:"enable_punc"`
	EnableITN          bool   `json:"enable_itn"`
}

// Submit uploads audio for transcription. format is the audio container tag
// (mp3 or wav). Any status other than success yields a *SubmissionError and no handle.
func (c *Client) Submit(ctx context.Context, audio []byte, format string) (TaskHandle, error) {
	if err := c.requireCredentials("volcengine submit"); err != nil {
		return TaskHandle{}, services.Wrap(services.ErrPrecondition, "submit", "credentials", "", err)
	}
	if len(audio) == 0 {
		return TaskHandle{}, services.Wrap(services.ErrValidation, "submit", "audio", "audio payload is empty", nil)
	}
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		format = "mp3"
	}

	taskID := c.newTaskID()
	body, err := json.Marshal(submitRequest{
		User: submitUser{UID: c.cfg.UID},
		Audio: submitAudio{
			Data:       base64.StdEncoding.EncodeToString(audio),
			Format:     format,
			SampleRate: sampleRate,
			Channel:    channelCount,
		},
		Request: submitOptions{
			ModelName:          c.cfg.ModelName,
			EnableChannelSplit: false,
			EnableDDC:          true,
			EnableSpeakerInfo:  false,
			EnablePunc:         true,
			EnableITN:          true,
		},
	})
	if err != nil {
		return TaskHandle{}, fmt.Errorf("volcengine submit: encode body: %w", err)
	}

	logger := logging.WithContext(services.WithTaskID(ctx, taskID), c.logger)
	logger.Info("submitting transcription task",
		logging.Int("audio_bytes", len(audio)),
		logging.Int("encoded_bytes", base64.StdEncoding.EncodedLen(len(audio))),
		logging.String("format", format),
	)

	resp, err := c.post(ctx, c.cfg.SubmitURL, map[string]string{
		headerRequestID: taskID,
		headerSequence:  "-1",
	}, body)
	if err != nil {
		return TaskHandle{}, services.Wrap(services.ErrSubmission, "submit", "request", "", err)
	}
	if resp.statusCode != StatusSuccess {
		return TaskHandle{}, &SubmissionError{
			TaskID:     taskID,
			StatusCode: resp.statusCode,
			Message:    resp.message,
			HTTPStatus: resp.httpStatus,
			Header:     resp.header,
			Body:       snippet(resp.body),
		}
	}

	handle := TaskHandle{TaskID: taskID, LogID: resp.logID}
	logger.Info("transcription task accepted", logging.String("log_id", handle.LogID))
	return handle, nil
}
