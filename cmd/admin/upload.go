package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/pianostudio-backend/internal/clients/studio"
	"github.com/yungbote/pianostudio-backend/internal/platform/envutil"
)

// uploadKinds maps a content kind to the storage prefix its main file goes under.
var uploadKinds = map[string]string{
	"video":           "videos",
	"sheet-music":     "sheet-music",
	"technique-drill": "drills",
}

type uploadFlags struct {
	server       string
	token        string
	file         string
	thumbnail    string
	title        string
	description  string
	difficulty   string
	learningTime string
	aspectRatio  string
	tags         []string
}

func newUploadCmd(e *env) *cobra.Command {
	f := &uploadFlags{}
	cmd := &cobra.Command{
		Use:       "upload <video|sheet-music|technique-drill>",
		Short:     "Upload a file through a signed slot and create its catalog row",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"video", "sheet-music", "technique-drill"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			prefix, ok := uploadKinds[kind]
			if !ok {
				return fmt.Errorf("unknown kind %q", kind)
			}
			if f.token == "" {
				return fmt.Errorf("an owner access token is required (--token or STUDIO_TOKEN)")
			}
			client := studio.New(e.log, f.server, f.token, nil)
			ctx := cmd.Context()

			fileURL, err := uploadFile(cmd, client, prefix, f.file)
			if err != nil {
				return err
			}
			payload := map[string]any{
				"title":         f.title,
				"description":   f.description,
				"tags":          f.tags,
				"difficulty":    f.difficulty,
				"learning_time": f.learningTime,
			}
			if kind == "video" {
				payload["video_url"] = fileURL
				payload["aspect_ratio"] = f.aspectRatio
			} else {
				payload["pdf_url"] = fileURL
			}
			if f.thumbnail != "" {
				thumbURL, err := uploadFile(cmd, client, "thumbnails", f.thumbnail)
				if err != nil {
					return err
				}
				payload["thumbnail_url"] = thumbURL
			}

			var created map[string]any
			if err := client.Create(ctx, kind, payload, &created); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %v\n", kind, created["id"])
			return nil
		},
	}
	cmd.Flags().StringVar(&f.server, "server", envutil.String("STUDIO_SERVER", "http://localhost:8080"), "API base URL")
	cmd.Flags().StringVar(&f.token, "token", envutil.String("STUDIO_TOKEN", ""), "owner bearer token")
	cmd.Flags().StringVar(&f.file, "file", "", "local file to upload")
	cmd.Flags().StringVar(&f.thumbnail, "thumbnail", "", "optional local thumbnail image")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "beginner", "beginner, intermediate or advanced")
	cmd.Flags().StringVar(&f.learningTime, "learning-time", "", "free-form learning time, e.g. \"10 mins\"")
	cmd.Flags().StringVar(&f.aspectRatio, "aspect-ratio", "", "video aspect ratio, e.g. 16:9")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func uploadFile(cmd *cobra.Command, client *studio.Client, prefix, path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	name := filepath.Base(path)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	publicURL, err := client.Upload(cmd.Context(), prefix+"/"+name, fh, contentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s -> %s\n", name, publicURL)
	return publicURL, nil
}
