package dto

// SearchRecipeRequest 菜谱搜索参数
type SearchRecipeRequest struct {
	Q string `form:"q"`
}

// SyncResult 全量重建索引结果
type SyncResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
