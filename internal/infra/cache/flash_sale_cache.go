package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/go-redis/redis/v8"
)

// FlashSaleCache はFlashSaleRepositoryの読み出しをredisに載せる。
// インテント作成（価格プレビュー）でだけ使う。決済トランザクションは
// 必ずDBのrepoを直接使うこと。
type FlashSaleCache struct {
	inner repo.FlashSaleRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewFlashSaleCache(inner repo.FlashSaleRepository, rdb *redis.Client, ttl time.Duration) *FlashSaleCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &FlashSaleCache{inner: inner, rdb: rdb, ttl: ttl}
}

type cachedFlashSale struct {
	Found bool            `json:"found"`
	Sale  model.FlashSale `json:"sale"`
}

func flashSaleKey(productID int64) string {
	return fmt.Sprintf("flashsale:product:%d", productID)
}

func (c *FlashSaleCache) FindActiveForProduct(ctx context.Context, productID int64, at time.Time) (model.FlashSale, bool, error) {
	key := flashSaleKey(productID)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var entry cachedFlashSale
		if json.Unmarshal([]byte(raw), &entry) == nil {
			if !entry.Found {
				return model.FlashSale{}, false, nil
			}
			//キャッシュが残っていても時間窓は今の時刻で見直す
			if entry.Sale.CoversAt(at) {
				return entry.Sale, true, nil
			}
			return model.FlashSale{}, false, nil
		}
	}

	sale, found, err := c.inner.FindActiveForProduct(ctx, productID, at)
	if err != nil {
		return model.FlashSale{}, false, err
	}

	//書き込みはbest effort（redis落ちでも販売は続ける）
	if raw, err := json.Marshal(cachedFlashSale{Found: found, Sale: sale}); err == nil {
		c.rdb.Set(ctx, key, raw, c.ttl)
	}

	return sale, found, nil
}

// sold_countは価格に影響しないのでキャッシュは触らない
func (c *FlashSaleCache) IncrementSoldCount(ctx context.Context, flashSaleID int64, qty int64) error {
	return c.inner.IncrementSoldCount(ctx, flashSaleID, qty)
}
