package tinderclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/RassulYunussov/tinderclient/common"
	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
)

// Authorize exchanges Facebook credentials for a session token and stores it.
// A response without a token is returned with ErrNotAuthorized and the
// current session is kept.
func (c *Client) Authorize(ctx context.Context, facebookToken, facebookUserID string) (common.Payload, error) {
	if facebookToken == "" || facebookUserID == "" {
		return common.Payload{}, local_errors.InvalidArguments("facebook token and user id are required")
	}
	body, err := c.post(ctx, "/auth", map[string]string{
		"facebook_token": facebookToken,
		"facebook_id":    facebookUserID,
		"locale":         c.locale,
	}, false)
	if err != nil {
		return common.Payload{}, err
	}
	obj, _ := body.Object()
	token := obj.String("token")
	if token == "" {
		return body, &local_errors.Error{Kind: local_errors.KindNotAuthorized, Message: "response carries no token"}
	}
	c.session.SetToken(token)
	return body, nil
}

func (c *Client) GetRecommendations(ctx context.Context) (common.Payload, error) {
	return c.get(ctx, "/user/recs", "")
}

// GetAccount returns the profile of the authorized user.
func (c *Client) GetAccount(ctx context.Context) (common.Payload, error) {
	return c.get(ctx, "/meta", "")
}

func (c *Client) GetUser(ctx context.Context, userID string) (common.Payload, error) {
	if userID == "" {
		return common.Payload{}, local_errors.InvalidArguments("user id is required")
	}
	return c.get(ctx, "/user/"+url.PathEscape(userID), "")
}

// GetUpdates returns matches and messages changed after since.
// With no argument every update is requested; more than one is rejected,
// as is an ActivityDate that was neither built by ActivitySince nor NoActivityDate.
func (c *Client) GetUpdates(ctx context.Context, since ...ActivityDate) (common.Payload, error) {
	date := NoActivityDate()
	switch len(since) {
	case 0:
	case 1:
		date = since[0]
	default:
		return common.Payload{}, local_errors.InvalidArguments("at most one last activity date")
	}
	if !date.IsValid() {
		return common.Payload{}, local_errors.InvalidArguments("last activity date must be a date or empty")
	}
	return c.post(ctx, "/updates", map[string]string{"last_activity_date": date.String()}, true)
}

func (c *Client) SendMessage(ctx context.Context, matchID, message string) (common.Payload, error) {
	if matchID == "" || message == "" {
		return common.Payload{}, local_errors.InvalidArguments("match id and message are required")
	}
	return c.post(ctx, "/user/matches/"+url.PathEscape(matchID), map[string]string{"message": message}, true)
}

// Like swipes right on userID. The photo fields are optional and sent as
// empty values when missing. When the account has no likes left the body is
// returned together with ErrOutOfLikes.
func (c *Client) Like(ctx context.Context, userID, photoID, contentHash, sNumber string) (common.Payload, error) {
	if userID == "" {
		return common.Payload{}, local_errors.InvalidArguments("user id is required")
	}
	body, err := c.get(ctx, "/like/"+url.PathEscape(userID), likeQuery(photoID, contentHash, sNumber))
	if err != nil {
		return common.Payload{}, err
	}
	if obj, ok := body.Object(); ok && !obj.Truthy("likes_remaining") {
		return body, local_errors.ErrOutOfLikes
	}
	return body, nil
}

// Pass swipes left on userID.
func (c *Client) Pass(ctx context.Context, userID string) (common.Payload, error) {
	if userID == "" {
		return common.Payload{}, local_errors.InvalidArguments("user id is required")
	}
	return c.get(ctx, "/pass/"+url.PathEscape(userID), "")
}

// likeQuery keeps the key order the endpoint is called with; url.Values.Encode sorts.
func likeQuery(photoID, contentHash, sNumber string) string {
	var b strings.Builder
	b.WriteString("photoId=")
	b.WriteString(url.QueryEscape(photoID))
	b.WriteString("&content_hash=")
	b.WriteString(url.QueryEscape(contentHash))
	b.WriteString("&s_number=")
	b.WriteString(url.QueryEscape(sNumber))
	return b.String()
}
