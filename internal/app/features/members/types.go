// internal/app/features/members/types.go
package members

import (
	"fmt"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// languageInput is one language line of the member form.
type languageInput struct {
	Language string `json:"language" validate:"required,max=60" label:"Language"`
	Level    string `json:"level" validate:"omitempty,langlevel" label:"Level"`
	Other    string `json:"other" validate:"max=60" label:"Other language"`
}

// memberInput is the JSON body of create and update.
type memberInput struct {
	Name            string          `json:"name" validate:"required,max=200" label:"Name"`
	Status          string          `json:"status" validate:"omitempty,oneof=active inactive" label:"Status"`
	Role            string          `json:"role" validate:"omitempty,memberrole" label:"Role"`
	Birthdate       string          `json:"birthdate" validate:"omitempty,ymd" label:"Birthdate"`
	Contact         string          `json:"contact" validate:"max=200" label:"Contact"`
	GuardianName    string          `json:"guardian_name" validate:"max=200" label:"Guardian name"`
	GuardianContact string          `json:"guardian_contact" validate:"max=200" label:"Guardian contact"`
	School          string          `json:"school" validate:"max=200" label:"School"`
	Languages       []languageInput `json:"languages" validate:"dive" label:"Languages"`
}

// toMember validates the input and returns the sanitized member.
func (in memberInput) toMember() (models.Member, error) {
	in.Name = htmlsanitize.Text(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Birthdate = strings.TrimSpace(in.Birthdate)
	for i := range in.Languages {
		in.Languages[i].Language = htmlsanitize.Text(in.Languages[i].Language)
		in.Languages[i].Level = strings.TrimSpace(in.Languages[i].Level)
		in.Languages[i].Other = htmlsanitize.Text(in.Languages[i].Other)
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Member{}, fmt.Errorf("%s", res.First())
	}

	m := models.Member{
		Name:            in.Name,
		Status:          in.Status,
		Role:            in.Role,
		Birthdate:       in.Birthdate,
		Contact:         htmlsanitize.Text(in.Contact),
		GuardianName:    htmlsanitize.Text(in.GuardianName),
		GuardianContact: htmlsanitize.Text(in.GuardianContact),
		School:          htmlsanitize.Text(in.School),
	}
	for _, l := range in.Languages {
		m.Languages = append(m.Languages, models.Language{
			Language: l.Language,
			Level:    l.Level,
			Other:    l.Other,
		})
	}
	return m, nil
}
