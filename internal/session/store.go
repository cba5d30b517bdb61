package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"artify-me/common"
	"artify-me/internal/studio"
)

// DefaultTTL 会话闲置多久后过期
const DefaultTTL = 30 * time.Minute

// ErrNotFound 会话不存在或已过期
var ErrNotFound = errors.New("session not found")

// Factory 为新会话创建控制器
type Factory func() *studio.Controller

// Store 按会话 ID 保存控制器，每个浏览器或 MCP 客户端一个
type Store struct {
	cache   *cache.Cache
	ttl     time.Duration
	factory Factory
}

// NewStore 创建会话存储，ttl <= 0 时使用 DefaultTTL
func NewStore(ttl time.Duration, factory Factory) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		cache:   cache.New(ttl, 2*ttl),
		ttl:     ttl,
		factory: factory,
	}
	s.cache.OnEvicted(func(id string, _ interface{}) {
		common.WithField("session_id", id).Debug("Session expired")
	})
	return s
}

// Create 新建会话
func (s *Store) Create() (string, *studio.Controller) {
	id := uuid.NewString()
	ctrl := s.factory()
	s.cache.Set(id, ctrl, s.ttl)
	common.WithField("session_id", id).Info("Session created")
	return id, ctrl
}

// Get 查找会话，命中时刷新过期时间
func (s *Store) Get(id string) (*studio.Controller, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	ctrl := v.(*studio.Controller)
	s.cache.Set(id, ctrl, s.ttl)
	return ctrl, nil
}

// GetOrCreate 查找会话，不存在时以给定 ID 新建
func (s *Store) GetOrCreate(id string) *studio.Controller {
	if ctrl, err := s.Get(id); err == nil {
		return ctrl
	}
	ctrl := s.factory()
	// 并发创建时以先写入者为准
	if err := s.cache.Add(id, ctrl, s.ttl); err != nil {
		if existing, err := s.Get(id); err == nil {
			return existing
		}
		s.cache.Set(id, ctrl, s.ttl)
	}
	common.WithField("session_id", id).Info("Session created")
	return ctrl
}

// Delete 删除会话
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len 当前会话数量
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
