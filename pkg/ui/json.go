package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/pakmerge/pkg/errors"
	"github.com/arthur-debert/pakmerge/pkg/merge"
	"github.com/arthur-debert/pakmerge/pkg/types"
)

// jsonRenderer provides JSON output for machine consumption
type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(output io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{encoder: encoder}
}

type modView struct {
	ID            string              `json:"id"`
	GameID        string              `json:"gameId"`
	Type          string              `json:"type,omitempty"`
	InstallPath   string              `json:"installPath,omitempty"`
	PakDictionary types.PakDictionary `json:"pakDictionary"`
}

// RenderMods implements Renderer
func (r *jsonRenderer) RenderMods(mods []*types.ModRecord) error {
	views := make([]modView, 0, len(mods))
	for _, rec := range mods {
		dict, err := rec.PakDictionary()
		if err != nil {
			return err
		}
		if dict == nil {
			dict = types.PakDictionary{}
		}
		views = append(views, modView{
			ID:            rec.ID,
			GameID:        rec.GameID,
			Type:          rec.Type,
			InstallPath:   rec.InstallPath,
			PakDictionary: dict,
		})
	}
	return r.encoder.Encode(views)
}

type outcomeView struct {
	File   string `json:"file"`
	ModID  string `json:"modId,omitempty"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// RenderMergeReport implements Renderer
func (r *jsonRenderer) RenderMergeReport(report *merge.Report) error {
	views := []outcomeView{}
	if report != nil {
		for _, o := range report.Outcomes {
			status, detail := outcomeStatus(o)
			mod := o.Request.ModID
			if mod == "" && o.Result != nil {
				mod = o.Result.ModID
			}
			views = append(views, outcomeView{File: o.Request.FilePath, ModID: mod, Status: status, Detail: detail})
		}
	}
	return r.encoder.Encode(views)
}

// RenderError implements Renderer
func (r *jsonRenderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	})
}

// RenderMessage implements Renderer
func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
