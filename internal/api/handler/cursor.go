package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/upskillhq/skillmatch/internal/engine/storage"
)

// DecodeTaskCursor parses an opaque page cursor back into its keyset fields.
func DecodeTaskCursor(cursorStr string) (*storage.TaskCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	decodedParts := strings.Split(string(decoded), "|")
	if len(decodedParts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	if _, err := fmt.Sscanf(decodedParts[0], "%d", &createdAt); err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	var seq int64
	if _, err := fmt.Sscanf(decodedParts[1], "%d", &seq); err != nil {
		return nil, fmt.Errorf("invalid seq in cursor: %w", err)
	}

	return &storage.TaskCursor{
		CreatedAt: time.Unix(0, createdAt),
		Seq:       seq,
	}, nil
}

// EncodeTaskCursor renders a keyset cursor as an opaque string.
func EncodeTaskCursor(cursor *storage.TaskCursor) string {
	cs := fmt.Sprintf("%d|%d", cursor.CreatedAt.UnixNano(), cursor.Seq)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
