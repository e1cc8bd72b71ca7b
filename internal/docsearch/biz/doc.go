// Package biz 提供 docsearch 服务的业务逻辑层。
//
// 组件划分：
//   - Chunker: 将文本切分为带重叠的分块
//   - Embedder: 批量向量化，校验维度
//   - Indexer: 分块、向量化，并写入分块存储、向量索引与文档注册表
//   - Retriever: 向量检索并用分块存储补全文本
//   - Synthesizer: 从检索结果中抽取句子生成答案
//   - Service: 组合以上组件，提供上传、检索与问答
package biz
