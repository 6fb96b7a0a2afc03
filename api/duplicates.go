package api

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlRowIsReferenced 外键约束：被其它记录引用的行无法删除
const mysqlRowIsReferenced = 1451

// uniqueField 需要唯一的列及其待写入值
type uniqueField struct {
	Key    string
	Column string
	Value  string
}

// findDuplicates 查询与给定值冲突的记录（排除 excludeID），返回每个字段是否冲突
// 值为空的字段不参与查询，结果中记为 false
func findDuplicates(db *gorm.DB, table string, excludeID uint, fields []uniqueField) (map[string]bool, bool, error) {
	dup := make(map[string]bool, len(fields))
	var (
		conds   []string
		args    []interface{}
		columns []string
	)
	for _, f := range fields {
		dup[f.Key] = false
		columns = append(columns, f.Column)
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		conds = append(conds, f.Column+" = ?")
		args = append(args, strings.TrimSpace(f.Value))
	}
	if len(conds) == 0 {
		return dup, false, nil
	}

	q := db.Table(table).Select(columns).Where(strings.Join(conds, " OR "), args...)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var rows []map[string]interface{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, false, err
	}

	exists := false
	for _, row := range rows {
		for _, f := range fields {
			v := strings.TrimSpace(f.Value)
			if v != "" && strings.EqualFold(columnString(row[f.Column]), v) {
				dup[f.Key] = true
				exists = true
			}
		}
	}
	return dup, exists, nil
}

func columnString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(s)
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// isRowReferenced 删除时违反外键约束
func isRowReferenced(err error) bool {
	var me *mysqldriver.MySQLError
	return errors.As(err, &me) && me.Number == mysqlRowIsReferenced
}
