package client

import (
	"context"
	"errors"
	"math/rand"

	"github.com/Shobuki/gfchristmastwebsite/gacha"
	"github.com/Shobuki/gfchristmastwebsite/models"
)

// ErrNoCoins is returned by Pull when the balance is empty.
var ErrNoCoins = errors.New("no coins left")

// ErrNoItems is returned by Pull when no collectibles exist yet.
var ErrNoItems = errors.New("no gacha items available")

type gachaItemList struct {
	Items []models.GachaItem `json:"items"`
}

type raritySettingList struct {
	Items []models.GachaRaritySetting `json:"items"`
}

type gachaState struct {
	AdminID uint `json:"adminId"`
	Coins   int  `json:"coins"`
}

type resultList struct {
	Items []uint `json:"items"`
}

func (c *Client) ListGachaItems(ctx context.Context) ([]models.GachaItem, error) {
	var list gachaItemList
	if err := c.getJSON(ctx, "/api/gacha-items", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) GachaWeights(ctx context.Context) (gacha.Weights, error) {
	var list raritySettingList
	if err := c.getJSON(ctx, "/api/gacha-rarity", &list); err != nil {
		return nil, err
	}
	weights := make(gacha.Weights, len(list.Items))
	for _, s := range list.Items {
		weights[s.Rarity] = s.Weight
	}
	return weights, nil
}

func (c *Client) Coins(ctx context.Context) (int, error) {
	var state gachaState
	if err := c.getJSON(ctx, "/api/gacha-state", &state); err != nil {
		return 0, err
	}
	return state.Coins, nil
}

// spendCoin applies -1 through the authoritative counter endpoint and returns
// the server's post-update balance.
func (c *Client) spendCoin(ctx context.Context) (int, error) {
	delta := -1
	var state gachaState
	if err := c.postJSON(ctx, "/api/gacha-state", map[string]*int{"delta": &delta}, &state); err != nil {
		return 0, err
	}
	return state.Coins, nil
}

func (c *Client) CollectedItems(ctx context.Context) ([]uint, error) {
	var list resultList
	if err := c.getJSON(ctx, "/api/gacha-results", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) recordResult(ctx context.Context, itemID uint) error {
	return c.postJSON(ctx, "/api/gacha-results", map[string]uint{"gachaItemId": itemID}, nil)
}

// PullResult is the outcome of one roll.
type PullResult struct {
	Item      models.GachaItem
	Rarity    models.Rarity
	CoinsLeft int
}

// Pull performs one gacha roll: fetches weights, items, and balance, draws a
// rarity then an item locally, spends exactly one coin through the server,
// reconciles to the returned balance, and records the unlock idempotently.
// The coin is spent before the unlock is recorded: when recording fails, the
// balance has already been decremented and the error reports a paid but
// unrecorded pull.
func (c *Client) Pull(ctx context.Context, rng *rand.Rand) (*PullResult, error) {
	coins, err := c.Coins(ctx)
	if err != nil {
		return nil, err
	}
	if coins <= 0 {
		return nil, ErrNoCoins
	}

	items, err := c.ListGachaItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	weights, err := c.GachaWeights(ctx)
	if err != nil {
		return nil, err
	}

	byRarity := gacha.GroupByRarity(items)
	available := gacha.AvailableRarities(byRarity)
	rarity := gacha.DrawRarity(rng, weights, available)
	item, ok := gacha.PickItem(rng, byRarity[rarity])
	if !ok {
		return nil, ErrNoItems
	}

	coinsLeft, err := c.spendCoin(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.recordResult(ctx, item.ID); err != nil {
		return nil, err
	}

	return &PullResult{Item: item, Rarity: rarity, CoinsLeft: coinsLeft}, nil
}
