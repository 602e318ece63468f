// Package engine 调课协商的纯算法部分：节次表、共同可用时间求交、
// 教室筛选与排序、双方确认标志迁移、循环课次平移与冲突校验。
//
// 本包不访问数据库，所有输入由 service 层通过 repository 查询后显式传入。
package engine
