package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/RichardToddFidelis/reporting-backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

// get type name of struct
func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

func cacheKey(typeName string, id int) string {
	return typeName + ":" + fmt.Sprint(id)
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	key := cacheKey(GetTypeName[T](), id)
	return config.SetRedisObject(key, obj, GetCacheLifespan())
}

// retrieve cached instance; nil result means a cache miss
func RetrieveRedis[T any](id int) (*T, error) {
	key := cacheKey(GetTypeName[T](), id)
	var result T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &result, nil
}

// remove cached instance after a mutation
func RemoveRedis[T any](id int) error {
	key := cacheKey(GetTypeName[T](), id)
	return config.RemoveRedisKey(key)
}
