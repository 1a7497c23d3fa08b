package services

import (
	gocache "github.com/patrickmn/go-cache"

	"jiratoclickup/models"
	"jiratoclickup/utils"
)

// UserLookup はアカウントIDから表示名を取得するクライアントです
type UserLookup interface {
	Configured() bool
	LookupUser(accountID string) (string, error)
}

// UserResolver はJIRAアカウントIDを表示名に解決します。
// キャッシュは1回の実行にスコープされます
type UserResolver struct {
	cache *gocache.Cache
	jira  UserLookup
}

// NewUserResolver は新しいリゾルバーを作成します。
// seed はXMLエクスポートから構築した初期マッピングです
func NewUserResolver(jira UserLookup, seed models.UserMapping) *UserResolver {
	c := gocache.New(gocache.NoExpiration, 0)
	for accountID, name := range seed {
		c.Set(accountID, name, gocache.NoExpiration)
	}

	return &UserResolver{
		cache: c,
		jira:  jira,
	}
}

// Resolve はアカウントIDを表示名に解決します。
// キャッシュミス時はJIRA APIを1回だけ呼び出し、失敗時は
// アカウントIDをそのまま返します（回復可能な劣化）
func (r *UserResolver) Resolve(accountID string) string {
	if accountID == "" {
		return ""
	}

	if name, found := r.cache.Get(accountID); found {
		return name.(string)
	}

	if r.jira == nil || !r.jira.Configured() {
		// JIRA未設定時はアカウントIDをそのまま使用する
		r.cache.Set(accountID, accountID, gocache.NoExpiration)
		return accountID
	}

	name, err := r.jira.LookupUser(accountID)
	if err != nil {
		utils.LogWarn("ユーザー解決失敗 %s: %v", accountID, err)
		// 失敗もキャッシュして再呼び出しを防ぐ
		r.cache.Set(accountID, accountID, gocache.NoExpiration)
		return accountID
	}

	r.cache.Set(accountID, name, gocache.NoExpiration)
	return name
}
