package remote

import (
	"cmp"
	"slices"
	"strconv"

	"go.trai.ch/herd/internal/core/domain"
)

type urlList struct {
	URLList []string `json:"url_list"`
}

// last returns the final URL of the list, the highest quality variant.
func (u *urlList) last() string {
	if u == nil || len(u.URLList) == 0 {
		return ""
	}
	return u.URLList[len(u.URLList)-1]
}

type userDTO struct {
	SecUID         string  `json:"sec_uid"`
	UniqueID       string  `json:"unique_id"`
	Nickname       string  `json:"nickname"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	TotalFavorited int64   `json:"total_favorited"`
	Avatar         urlList `json:"avatar_168x168"`
	Secret         int     `json:"secret"`
}

type profileResponse struct {
	StatusCode int      `json:"status_code"`
	User       *userDTO `json:"user"`
}

type awemeDTO struct {
	AwemeID    string `json:"aweme_id"`
	Desc       string `json:"desc"`
	CreateTime int64  `json:"create_time"`
	Author     struct {
		UniqueID string `json:"unique_id"`
		SecUID   string `json:"sec_uid"`
	} `json:"author"`
	Video struct {
		Cover         urlList  `json:"cover"`
		AnimatedCover *urlList `json:"animated_cover"`
		DownloadAddr  urlList  `json:"download_addr"`
		PlayAddr      urlList  `json:"play_addr"`
	} `json:"video"`
	ShareInfo struct {
		ShareURL string `json:"share_url"`
	} `json:"share_info"`
	Statistics struct {
		CommentCount       int64 `json:"comment_count"`
		DiggCount          int64 `json:"digg_count"`
		DownloadCount      int64 `json:"download_count"`
		ForwardCount       int64 `json:"forward_count"`
		LoseCommentCount   int64 `json:"lose_comment_count"`
		LoseCount          int64 `json:"lose_count"`
		PlayCount          int64 `json:"play_count"`
		ShareCount         int64 `json:"share_count"`
		WhatsappShareCount int64 `json:"whatsapp_share_count"`
	} `json:"statistics"`
}

type listResponse struct {
	StatusCode int        `json:"status_code"`
	AwemeList  []awemeDTO `json:"aweme_list"`
}

type detailResponse struct {
	StatusCode  int       `json:"status_code"`
	AwemeDetail *awemeDTO `json:"aweme_detail"`
}

type registerResponse struct {
	DeviceID  string `json:"device_id_str"`
	InstallID string `json:"install_id_str"`
}

func (u *userDTO) toProfile() *domain.Profile {
	return &domain.Profile{
		UserID:    u.SecUID,
		LoginName: u.UniqueID,
		Name:      u.Nickname,
		Followers: u.FollowerCount,
		Following: u.FollowingCount,
		Likes:     u.TotalFavorited,
		Avatar:    u.Avatar.last(),
		Secret:    u.Secret == 1,
	}
}

func (c *Client) toPost(a *awemeDTO) domain.Post {
	return domain.Post{
		ID:                 a.AwemeID,
		Cover:              a.Video.Cover.last(),
		AnimatedCover:      a.Video.AnimatedCover.last(),
		DownloadLinks:      slices.Clone(a.Video.DownloadAddr.URLList),
		PlayLinks:          slices.Clone(a.Video.PlayAddr.URLList),
		ShareLink:          a.ShareInfo.ShareURL,
		WebLink:            c.cfg.WebBaseURL + "/@" + a.Author.UniqueID + "/video/" + a.AwemeID,
		CommentCount:       a.Statistics.CommentCount,
		DiggCount:          a.Statistics.DiggCount,
		DownloadCount:      a.Statistics.DownloadCount,
		ForwardCount:       a.Statistics.ForwardCount,
		LoseCommentCount:   a.Statistics.LoseCommentCount,
		LoseCount:          a.Statistics.LoseCount,
		PlayCount:          a.Statistics.PlayCount,
		ShareCount:         a.Statistics.ShareCount,
		WhatsappShareCount: a.Statistics.WhatsappShareCount,
		Description:        a.Desc,
		AuthorID:           a.Author.SecUID,
		CreateTime:         a.CreateTime,
	}
}

// toPosts converts a page of items, newest first.
func (c *Client) toPosts(list []awemeDTO) []domain.Post {
	posts := make([]domain.Post, 0, len(list))
	for i := range list {
		posts = append(posts, c.toPost(&list[i]))
	}
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		return cmp.Compare(b.CreateTime, a.CreateTime)
	})
	return posts
}

func statusError(code int) error {
	return &upstreamStatus{code: code}
}

type upstreamStatus struct {
	code int
}

func (e *upstreamStatus) Error() string {
	return "upstream status_code " + strconv.Itoa(e.code)
}
