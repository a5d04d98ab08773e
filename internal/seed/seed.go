// Package seed loads the JSON fixtures under data/ and turns them into
// store documents with their ids preserved, so references line up.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	"bootcamp-directory/internal/infrastructure/database/mongodb/models"
	"bootcamp-directory/pkg/utils"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type Bootcamp struct {
	ID            string                   `json:"_id"`
	User          string                   `json:"user"`
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Website       string                   `json:"website"`
	Phone         string                   `json:"phone"`
	Email         string                   `json:"email"`
	Address       string                   `json:"address"`
	Location      *domainBootcamp.Location `json:"location"`
	Careers       []string                 `json:"careers"`
	Housing       bool                     `json:"housing"`
	JobAssistance bool                     `json:"jobAssistance"`
	JobGuarantee  bool                     `json:"jobGuarantee"`
	AcceptGi      bool                     `json:"acceptGi"`
}

type Course struct {
	ID                   string  `json:"_id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Weeks                string  `json:"weeks"`
	Tuition              float64 `json:"tuition"`
	MinimumSkill         string  `json:"minimumSkill"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
	Bootcamp             string  `json:"bootcamp"`
	User                 string  `json:"user"`
}

type Review struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	Bootcamp string `json:"bootcamp"`
	User     string `json:"user"`
}

type Dataset struct {
	Users     []User
	Bootcamps []Bootcamp
	Courses   []Course
	Reviews   []Review
}

// Geocoder fills in bootcamp locations the fixtures leave out.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domainBootcamp.Location, error)
}

// Load reads users.json, bootcamps.json, courses.json and reviews.json from
// dir. A missing file is an empty collection.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}
	files := []struct {
		name string
		into interface{}
	}{
		{"users.json", &ds.Users},
		{"bootcamps.json", &ds.Bootcamps},
		{"courses.json", &ds.Courses},
		{"reviews.json", &ds.Reviews},
	}

	for _, f := range files {
		raw, err := os.ReadFile(filepath.Join(dir, f.name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, f.into); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return ds, nil
}

// Documents converts the dataset into insertable models. Plain passwords are
// hashed and slugs derived here; bootcamps without a location are geocoded
// when geocoder is non-nil.
func (ds *Dataset) Documents(ctx context.Context, geocoder Geocoder) (*Documents, error) {
	now := time.Now().UTC()
	docs := &Documents{}

	for _, u := range ds.Users {
		id, err := objectID("user", u.ID)
		if err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return nil, err
		}
		docs.Users = append(docs.Users, models.UserModel{
			ID: id, Name: u.Name, Email: utils.SanitizeEmail(u.Email), Role: u.Role, Password: hash, CreatedAt: now,
		})
	}

	for _, b := range ds.Bootcamps {
		id, err := objectID("bootcamp", b.ID)
		if err != nil {
			return nil, err
		}
		owner, err := objectID("bootcamp owner", b.User)
		if err != nil {
			return nil, err
		}

		loc := b.Location
		if loc == nil && geocoder != nil && b.Address != "" {
			if loc, err = geocoder.Geocode(ctx, b.Address); err != nil {
				return nil, fmt.Errorf("geocoding %q: %w", b.Name, err)
			}
		}

		docs.Bootcamps = append(docs.Bootcamps, models.BootcampModel{
			ID:            id,
			Name:          b.Name,
			Slug:          slug.Make(b.Name),
			Description:   b.Description,
			Website:       b.Website,
			Phone:         b.Phone,
			Email:         b.Email,
			Address:       b.Address,
			Location:      toLocationModel(loc),
			Careers:       b.Careers,
			Photo:         domainBootcamp.DefaultPhoto,
			Housing:       b.Housing,
			JobAssistance: b.JobAssistance,
			JobGuarantee:  b.JobGuarantee,
			AcceptGi:      b.AcceptGi,
			User:          owner,
			CreatedAt:     now,
		})
		docs.BootcampIDs = append(docs.BootcampIDs, b.ID)
	}

	for _, c := range ds.Courses {
		ids, err := objectIDs("course", c.ID, c.Bootcamp, c.User)
		if err != nil {
			return nil, err
		}
		docs.Courses = append(docs.Courses, models.CourseModel{
			ID:                   ids[0],
			Title:                c.Title,
			Description:          c.Description,
			Weeks:                c.Weeks,
			Tuition:              c.Tuition,
			MinimumSkill:         c.MinimumSkill,
			ScholarshipAvailable: c.ScholarshipAvailable,
			Bootcamp:             ids[1],
			User:                 ids[2],
			CreatedAt:            now,
		})
	}

	for _, r := range ds.Reviews {
		ids, err := objectIDs("review", r.ID, r.Bootcamp, r.User)
		if err != nil {
			return nil, err
		}
		docs.Reviews = append(docs.Reviews, models.ReviewModel{
			ID:        ids[0],
			Title:     r.Title,
			Text:      r.Text,
			Rating:    r.Rating,
			Bootcamp:  ids[1],
			User:      ids[2],
			CreatedAt: now,
		})
	}

	return docs, nil
}

// Documents holds one slice per collection, ready for InsertMany.
type Documents struct {
	Users       []models.UserModel
	Bootcamps   []models.BootcampModel
	Courses     []models.CourseModel
	Reviews     []models.ReviewModel
	BootcampIDs []string
}

func Any[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}

func objectID(what, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s id %q", what, hex)
	}
	return id, nil
}

// objectIDs parses the document id followed by its bootcamp and user refs.
func objectIDs(what, id, bootcamp, user string) ([3]primitive.ObjectID, error) {
	var out [3]primitive.ObjectID
	var err error
	if out[0], err = objectID(what, id); err != nil {
		return out, err
	}
	if out[1], err = objectID(what+" bootcamp", bootcamp); err != nil {
		return out, err
	}
	if out[2], err = objectID(what+" user", user); err != nil {
		return out, err
	}
	return out, nil
}

func toLocationModel(l *domainBootcamp.Location) *models.LocationModel {
	if l == nil {
		return nil
	}
	return &models.LocationModel{
		Type:             l.Type,
		Coordinates:      l.Coordinates,
		FormattedAddress: l.FormattedAddress,
		Street:           l.Street,
		City:             l.City,
		State:            l.State,
		Zipcode:          l.Zipcode,
		Country:          l.Country,
	}
}
