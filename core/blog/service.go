package blog

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dotcoder/core"
)

var (
	// errors
	ErrNotFound      = errors.New("Blog not found")
	ErrInvalidAction = errors.New("Invalid action")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryBlogs returns the matching blogs (author joined) sorted by createdAt DESC.
		QueryBlogs(ctx context.Context, filter Filter) ([]Blog, error)
		GetBlog(ctx context.Context, id string) (Blog, error)
		CreateBlog(ctx context.Context, b Blog) (Blog, error)
		UpdateBlog(ctx context.Context, b Blog) (Blog, error)
		DeleteBlog(ctx context.Context, id string) error
		// IncrementViews atomically adds one view and returns the refreshed blog.
		IncrementViews(ctx context.Context, id string) (Blog, error)
		// ToggleLike atomically adds or removes userID from the likes.
		ToggleLike(ctx context.Context, id, userID string) (Blog, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) QueryPublished(ctx context.Context) ([]Blog, error) {
	return svc.repo.QueryBlogs(ctx, Filter{Status: StatusPublished})
}

func (svc *Service) QueryMine(ctx context.Context, userID string) ([]Blog, error) {
	return svc.repo.QueryBlogs(ctx, Filter{AuthorID: userID})
}

func (svc *Service) QueryPending(ctx context.Context) ([]Blog, error) {
	return svc.repo.QueryBlogs(ctx, Filter{Status: StatusPending})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Blog, error) {
	return svc.repo.QueryBlogs(ctx, Filter{})
}

// View returns the blog and counts one more view.
// Non-published blogs are only visible to their author and admins.
func (svc *Service) View(ctx context.Context, id string, actor core.Actor) (Blog, error) {
	b, err := svc.repo.GetBlog(ctx, id)
	if err != nil {
		return Blog{}, err
	}
	if !b.IsPublished() && !b.canEdit(actor) {
		return Blog{}, core.ErrPermissionDenied
	}
	return svc.repo.IncrementViews(ctx, id)
}

// initialStatus: admins may publish directly; anyone else may only ask for review, otherwise it's a draft.
func initialStatus(requested string, actor core.Actor) string {
	switch {
	case actor.IsAdmin && requested == StatusPublished:
		return StatusPublished
	case requested == StatusPending:
		return StatusPending
	default:
		return StatusDraft
	}
}

func (svc *Service) Create(ctx context.Context, actor core.Actor, nb NewBlog) (Blog, error) {
	now := nowFunc().UTC()
	b := Blog{
		Title:      nb.Title,
		Subtitle:   nb.Subtitle,
		Content:    nb.Content,
		CoverImage: nb.CoverImage,
		Tags:       nb.Tags,
		Author:     core.UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email},
		Status:     initialStatus(nb.Status, actor),
		ReadTime:   ReadTime(nb.Content),
		Likes:      []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return svc.repo.CreateBlog(ctx, b)
}

// nextStatus applies the status transition rules of an update.
// Admins set any valid status; authors may submit a draft/rejected blog for review, or move it back to draft.
func nextStatus(current, requested string, actor core.Actor) string {
	if requested == "" || !ValidStatus(requested) {
		return current
	}
	if actor.IsAdmin {
		return requested
	}
	switch {
	case requested == StatusPending && (current == StatusDraft || current == StatusRejected):
		return StatusPending
	case requested == StatusDraft:
		return StatusDraft
	}
	return current
}

func (svc *Service) Update(ctx context.Context, id string, actor core.Actor, ub UpdateBlog) (Blog, error) {
	b, err := svc.repo.GetBlog(ctx, id)
	if err != nil {
		return Blog{}, err
	}
	if !b.canEdit(actor) {
		return Blog{}, core.ErrPermissionDenied
	}

	if ub.Title != "" {
		b.Title = ub.Title
	}
	if ub.Subtitle != nil {
		b.Subtitle = *ub.Subtitle
	}
	if core.CleanString(ub.Content) != "" {
		b.Content = ub.Content
		b.ReadTime = ReadTime(b.Content)
	}
	if ub.CoverImage != nil {
		b.CoverImage = core.CleanString(*ub.CoverImage)
	}
	if ub.Tags != nil {
		b.Tags = ub.Tags
	}
	b.Status = nextStatus(b.Status, ub.Status, actor)
	b.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateBlog(ctx, b)
}

// Review approves or rejects a blog (admin only, enforced by the caller) and notifies the author.
func (svc *Service) Review(ctx context.Context, id string, r Review) (Blog, error) {
	b, err := svc.repo.GetBlog(ctx, id)
	if err != nil {
		return Blog{}, err
	}

	switch core.CleanString(r.Action, true /* lower */) {
	case ActionApprove:
		b.Status = StatusPublished
		b.RejectionReason = ""
	case ActionReject:
		b.Status = StatusRejected
		b.RejectionReason = core.CleanString(r.RejectionReason)
		if b.RejectionReason == "" {
			b.RejectionReason = defaultRejectionReason
		}
	default:
		return Blog{}, ErrInvalidAction
	}

	b.UpdatedAt = nowFunc().UTC()
	if b, err = svc.repo.UpdateBlog(ctx, b); err != nil {
		return Blog{}, errors.Wrap(err, "saving review")
	}
	svc.sendReviewMail(b)
	return b, nil
}

func (svc *Service) sendReviewMail(b Blog) {
	if svc.mailSvc == nil || b.Author.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: b.Author.Name, Address: b.Author.Email}},
		Subject:      "Your blog was reviewed",
		TemplateName: "blog_reviewed",
		TemplateData: map[string]interface{}{
			"Name":     b.Author.Name,
			"Title":    b.Title,
			"Approved": b.IsPublished(),
			"Reason":   b.RejectionReason,
		},
	})
}

func (svc *Service) ToggleLike(ctx context.Context, id, userID string) (Blog, error) {
	return svc.repo.ToggleLike(ctx, id, userID)
}

func (svc *Service) Delete(ctx context.Context, id string, actor core.Actor) error {
	b, err := svc.repo.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	if !b.canEdit(actor) {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteBlog(ctx, id)
}
