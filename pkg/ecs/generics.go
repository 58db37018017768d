package ecs

import "reflect"

// 泛型组件访问 API
//
// 与反射版本共享同一份存储，类型键统一为 reflect.TypeFor[T]()。
// 组件约定以指针形式存储（如 *components.InstanceComponent），
// 因此 T 通常是指针类型：
//
//	inst, ok := ecs.GetComponent[*components.InstanceComponent](em, id)

func typeKey[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// GetComponent 获取实体的 T 类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeKey[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// AddComponent 为实体添加 T 类型组件（已存在时替换）
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	if compMap, exists := em.components[id]; exists {
		compMap[typeKey[T]()] = component
	}
}

// HasComponent 检查实体是否拥有 T 类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeKey[T]())
}

// RemoveComponent 移除实体的 T 类型组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeKey[T]())
}

// GetEntitiesWith1 查询拥有 T1 组件的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeKey[T1]())
}

// GetEntitiesWith2 查询同时拥有 T1、T2 组件的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeKey[T1](), typeKey[T2]())
}

// GetEntitiesWith3 查询同时拥有 T1、T2、T3 组件的实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeKey[T1](), typeKey[T2](), typeKey[T3]())
}

// GetEntitiesWith4 查询同时拥有 T1..T4 组件的实体
func GetEntitiesWith4[T1, T2, T3, T4 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeKey[T1](), typeKey[T2](), typeKey[T3](), typeKey[T4]())
}

// GetEntitiesWith5 查询同时拥有 T1..T5 组件的实体
func GetEntitiesWith5[T1, T2, T3, T4, T5 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeKey[T1](), typeKey[T2](), typeKey[T3](), typeKey[T4](), typeKey[T5]())
}

// Without 过滤掉拥有 T 组件的实体（原地复用 ids 的底层数组）
//
// 用于表达 "With A, Without B" 这类否定查询：
//
//	ids := ecs.Without[*components.HashGridCellComponent](em,
//	    ecs.GetEntitiesWith2[*components.CollidableComponent, *components.InstanceComponent](em))
func Without[T any](em *EntityManager, ids []EntityID) []EntityID {
	key := typeKey[T]()
	result := ids[:0]
	for _, id := range ids {
		if !em.HasComponent(id, key) {
			result = append(result, id)
		}
	}
	return result
}

// With 只保留拥有 T 组件的实体（原地复用 ids 的底层数组）
func With[T any](em *EntityManager, ids []EntityID) []EntityID {
	key := typeKey[T]()
	result := ids[:0]
	for _, id := range ids {
		if em.HasComponent(id, key) {
			result = append(result, id)
		}
	}
	return result
}
