package service

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/slsmu/slsmu/internal/database"
	"github.com/slsmu/slsmu/internal/model"
	"github.com/slsmu/slsmu/internal/policy"
	"github.com/slsmu/slsmu/internal/sferror"
	"github.com/valyala/fastjson"
)

type (
	// ContentParams are the fields of a content payload.
	// A nil field was not provided.
	ContentParams struct {
		Type        string
		ID          string
		Title       *string
		ContentText *string
		ContentType *string
		Private     *bool
	}

	// ListParams are used to list contents.
	ListParams struct {
		ContentType string
		// Owner scopes the listing to the contents of the given account.
		Owner string
		// Private narrows the results to private or public contents.
		Private *bool
	}

	// A ContentService handles the content use-cases.
	ContentService struct {
		db database.Client
	}
)

// NewContent returns a new ContentService.
func NewContent(db database.Client) *ContentService {
	return &ContentService{
		db: db,
	}
}

// ParseContentParams checks the shape of the given JSON payload.
func ParseContentParams(body []byte) (params ContentParams, err error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return params, sferror.Validation("Could not get content params.")
	}
	if v.Type() != fastjson.TypeObject {
		return params, sferror.Validation("Content params must be an object.")
	}

	var s *string
	if s, err = str(v, "type"); err != nil {
		return params, err
	}
	if s != nil {
		params.Type = *s
	}

	if s, err = str(v, "id"); err != nil {
		return params, err
	}
	if s != nil {
		params.ID = *s
	}

	if params.Title, err = str(v, "title"); err != nil {
		return params, err
	}
	if params.ContentText, err = str(v, "contentText"); err != nil {
		return params, err
	}
	if params.ContentType, err = str(v, "contentType"); err != nil {
		return params, err
	}

	if f := v.Get("private"); f != nil && f.Type() != fastjson.TypeNull {
		b, err := f.Bool()
		if err != nil {
			return params, sferror.Validation("private must be a boolean.")
		}
		params.Private = &b
	}

	return params, nil
}

func str(v *fastjson.Value, key string) (*string, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return nil, nil
	}

	b, err := f.StringBytes()
	if err != nil {
		return nil, sferror.Validation(key + " must be a string.")
	}

	s := string(b)
	return &s, nil
}

// Create persists a new content owned by the caller.
func (s *ContentService) Create(caller *model.Caller, params ContentParams) (*model.Content, error) {
	if params.ContentType == nil || *params.ContentType == "" {
		return nil, sferror.Validation("No contentType provided.")
	}

	d, err := policy.Evaluate(caller, policy.Create, policy.Resource{})
	if err := authorize(caller, d, err); err != nil {
		return nil, err
	}

	content := &model.Content{OwnerID: caller.ID}
	apply(content, params)

	if err := s.db.Save(content); err != nil {
		return nil, errors.Wrap(err, "could not persist content")
	}

	logrus.WithFields(logrus.Fields{
		"caller":  caller.ID,
		"content": content.ID,
	}).Info("content created")
	return content, nil
}

// Get returns the content of the given id.
func (s *ContentService) Get(caller *model.Caller, id string) (*model.Content, error) {
	content, err := s.find(id)
	if err != nil {
		return nil, err
	}

	d, err := policy.Evaluate(caller, policy.Read, policy.Of(content))
	if err := authorize(caller, d, err); err != nil {
		return nil, err
	}

	return content, nil
}

// List returns the contents visible by the caller.
// The listing is a full scan, it is not paginated.
func (s *ContentService) List(caller *model.Caller, params ListParams) ([]*model.Content, error) {
	d, err := policy.Evaluate(caller, policy.List, policy.Resource{Owner: params.Owner})
	if err := authorize(caller, d, err); err != nil {
		return nil, err
	}

	var contents []*model.Content
	if params.Owner != "" {
		contents, err = s.db.FindContentsByOwner(params.Owner, params.ContentType)
	} else {
		contents, err = s.db.FindContentsByType(params.ContentType)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not list contents")
	}

	contents = policy.Filter(caller, contents)
	if params.Private == nil {
		return contents, nil
	}

	narrowed := make([]*model.Content, 0, len(contents))
	for _, c := range contents {
		if c.Private == *params.Private {
			narrowed = append(narrowed, c)
		}
	}
	return narrowed, nil
}

// Update modifies the content of the given params' id.
// The owner is never modified.
func (s *ContentService) Update(caller *model.Caller, params ContentParams) (*model.Content, error) {
	if params.ID == "" {
		return nil, sferror.Validation("No id provided.")
	}
	if params.ContentType != nil && *params.ContentType == "" {
		return nil, sferror.Validation("No contentType provided.")
	}

	content, err := s.authorizeOwned(caller, policy.Update, params.ID)
	if err != nil {
		return nil, err
	}

	apply(content, params)

	if err := s.db.Save(content); err != nil {
		return nil, errors.Wrap(err, "could not persist content")
	}
	return content, nil
}

// Delete removes the content of the given id.
func (s *ContentService) Delete(caller *model.Caller, id string) error {
	if id == "" {
		return sferror.Validation("No id provided.")
	}

	content, err := s.authorizeOwned(caller, policy.Delete, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(content); err != nil {
		return errors.Wrap(err, "could not delete content")
	}

	logrus.WithFields(logrus.Fields{
		"caller":  caller.ID,
		"content": content.ID,
	}).Info("content deleted")
	return nil
}

// authorizeOwned rejects guests before looking up the content,
// so a missing content is only reported to authenticated callers.
func (s *ContentService) authorizeOwned(caller *model.Caller, action policy.Action, id string) (*model.Content, error) {
	if caller == nil {
		d, err := policy.Evaluate(nil, action, policy.Resource{})
		if err := authorize(nil, d, err); err != nil {
			return nil, err
		}
	}

	content, err := s.find(id)
	if err != nil {
		return nil, err
	}

	d, err := policy.Evaluate(caller, action, policy.Of(content))
	if err := authorize(caller, d, err); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) find(id string) (*model.Content, error) {
	if id == "" {
		return nil, sferror.Validation("No id provided.")
	}

	content, err := s.db.FindContent(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, sferror.NotFound("No such content.")
		}
		return nil, errors.Wrap(err, "could not get content")
	}
	return content, nil
}

// updates given content with given params.
// works like strong_parameter.
func apply(c *model.Content, params ContentParams) {
	if params.Title != nil {
		c.Title = *params.Title
	}

	if params.ContentText != nil {
		c.ContentText = *params.ContentText
	}

	if params.ContentType != nil {
		c.ContentType = *params.ContentType
	}

	if params.Private != nil {
		c.Private = *params.Private
	}
}
