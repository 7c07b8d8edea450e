package main

import (
	"encoding/base64"
	"encoding/json"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

var (
	analyzeFiles     []string
	analyzeNarrative string
	analyzeCategory  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one intake session from local files and a narrative",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initIntake(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.IntakeRequest{
			SessionID:    uuid.New().String(),
			CategoryHint: analyzeCategory,
			Narrative:    analyzeNarrative,
		}

		for _, path := range analyzeFiles {
			artifact, err := loadArtifact(path)
			if err != nil {
				return err
			}
			req.Artifacts = append(req.Artifacts, artifact)
		}

		session, err := env.Runner.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "run intake session")
		}

		zap.L().Info("intake complete",
			zap.String("session_id", session.ID),
			zap.String("category", string(session.Result.Category)),
			zap.Int("confidence", session.Result.Confidence),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session.Result)
	},
}

// loadArtifact reads a local file into an upload artifact, deriving the
// media type from the file extension.
func loadArtifact(path string) (model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Artifact{}, eris.Wrapf(err, "read artifact %s", path)
	}

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}

	return model.Artifact{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(path),
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeFiles, "file", nil, "document to analyse (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeNarrative, "narrative", "", "free-text complaint narrative")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "optional category hint")
	rootCmd.AddCommand(analyzeCmd)
}
